/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package registry

import (
	"os"
	"path/filepath"
	"sort"

	dxerrors "dirpx.dev/promptpm/dxcore/errors"
)

// walkFilesSorted deterministically enumerates every regular file under
// root, descending directories in lexical order and yielding files within
// each directory in lexical order. Any symlink encountered at any depth —
// directory or file — aborts the walk with a DependencyError: the registry
// never follows or stores symlinks, since a symlink could point outside the
// installed module tree and silently escape the immutability guarantee.
func walkFilesSorted(root string) ([]string, error) {
	var files []string

	var visit func(dir string) error
	visit = func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}

		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())
			info, err := os.Lstat(full)
			if err != nil {
				return err
			}
			if info.Mode()&os.ModeSymlink != 0 {
				return &dxerrors.DependencyError{
					Path:    full,
					Message: "symlinks are not allowed in registry installs: " + full,
					Hint:    "remove the symlink or replace it with a real file before installing",
				}
			}
			if entry.IsDir() {
				if err := visit(full); err != nil {
					return err
				}
				continue
			}
			if entry.Type().IsRegular() {
				files = append(files, full)
			}
		}
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return files, nil
}

func relPosix(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
