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
	"testing"

	"mdisp/merror"

	"github.com/stretchr/testify/assert"
)

func TestDiscoverFilesFromDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.TXT", "c.md", "d.txt"} {
		assert.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	assert.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0755))

	files, err := DiscoverFiles([]string{dir})
	assert.NoError(t, err)
	assert.Equal(
		t,
		[]string{
			filepath.Join(dir, "a.TXT"),
			filepath.Join(dir, "b.txt"),
			filepath.Join(dir, "d.txt"),
		},
		files,
	)
}

func TestDiscoverFilesExplicitList(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "one.txt")
	p2 := filepath.Join(dir, "two.txt")
	assert.NoError(t, os.WriteFile(p1, []byte("x"), 0644))
	assert.NoError(t, os.WriteFile(p2, []byte("x"), 0644))

	files, err := DiscoverFiles([]string{p2, filepath.Join(dir, "missing.txt"), p1})
	assert.NoError(t, err)
	// order preserved, missing entries dropped
	assert.Equal(t, []string{p2, p1}, files)
}

func TestDiscoverFilesEmptyInput(t *testing.T) {
	_, err := DiscoverFiles(nil)
	assert.ErrorAs(t, err, &merror.InputError{})
}
