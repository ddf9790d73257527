// Copyright 2025 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2025 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//   This file is part of MDISP.
//
//  MDISP is free software: you can redistribute it and/or modify
//  it under the terms of the GNU General Public License as published by
//  the Free Software Foundation, either version 3 of the License, or
//  (at your option) any later version.
//
//  MDISP is distributed in the hope that it will be useful,
//  but WITHOUT ANY WARRANTY; without even the implied warranty of
//  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//  GNU General Public License for more details.
//
//  You should have received a copy of the GNU General Public License
//  along with MDISP.  If not, see <https://www.gnu.org/licenses/>.

package corpus

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mdisp/merror"

	"github.com/czcorpus/cnc-gokit/fs"
)

func isTextFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".txt")
}

// DiscoverFiles resolves the analysis input into an ordered list of
// document paths. A single directory argument expands to its
// immediate *.txt children, sorted by name so the part ordering of
// a corpus is stable across runs. An explicit list of paths is
// filtered to existing .txt files with the given order preserved.
func DiscoverFiles(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, merror.InputError{
			Msg: "input must be a directory or a list of .txt files"}
	}
	if len(paths) == 1 {
		if isDir, _ := fs.IsDir(paths[0]); isDir {
			entries, err := os.ReadDir(paths[0])
			if err != nil {
				return nil, merror.InputError{
					Msg: "failed to list corpus directory: " + err.Error()}
			}
			ans := make([]string, 0, len(entries))
			for _, entry := range entries {
				if !entry.IsDir() && isTextFile(entry.Name()) {
					ans = append(ans, filepath.Join(paths[0], entry.Name()))
				}
			}
			sort.Strings(ans)
			return ans, nil
		}
	}
	ans := make([]string, 0, len(paths))
	for _, path := range paths {
		isFile, _ := fs.IsFile(path)
		if isFile && isTextFile(path) {
			ans = append(ans, path)
		}
	}
	return ans, nil
}
