// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dictionary

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// fileExt is the conventional extension OpenAll looks for under a
// directory.
const fileExt = ".dict"

// OpenAll opens every dictionary file under dir, returning the successfully
// opened dictionaries along with any errors encountered walking the
// directory or opening individual files. Walking continues past errors.
func OpenAll(dir string) ([]*Dictionary, []error) {
	var dicts []*Dictionary
	var errs []error
	if err := filepath.WalkDir(dir, func(path string, info fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if info.IsDir() || !strings.EqualFold(filepath.Ext(info.Name()), fileExt) {
			return nil
		}
		d, err := Open(path)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		dicts = append(dicts, d)
		return nil
	}); err != nil {
		errs = append(errs, err)
		return dicts, errs
	}
	return dicts, errs
}

// DictionaryInfo is the fast, metadata-only view [Info] produces. On parse
// failure only Path and Size are populated.
type DictionaryInfo struct {
	Path      string
	Size      int64
	Version   int
	CreatedAt time.Time
	Comment   string
	Indices   []IndexInfo
}

// IndexInfo summarizes one of a dictionary's indices.
type IndexInfo struct {
	ShortName  string
	LongName   string
	NumEntries int
}

// Info returns a metadata-only summary of path. It opens the file with
// [Open], so the texts list and each index's header and stoplist are
// decoded along the way, as Open documents. It never returns an error:
// on any failure, a minimal record carrying only Path and Size (if the file
// could be stat'd at all) is returned, matching the fast-path's
// never-propagate-errors contract.
func Info(path string) *DictionaryInfo {
	result := &DictionaryInfo{Path: path}
	if st, err := os.Stat(path); err == nil {
		result.Size = st.Size()
	}

	d, err := Open(path)
	if err != nil {
		return result
	}
	defer d.Close()

	result.Version = d.Version()
	result.CreatedAt = d.CreatedAt()
	result.Comment = d.Info()
	for _, idx := range d.Indices() {
		result.Indices = append(result.Indices, IndexInfo{
			ShortName:  idx.ShortName,
			LongName:   idx.LongName,
			NumEntries: idx.Size(),
		})
	}
	return result
}
