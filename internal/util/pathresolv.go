/*
 * FrankyGo - UCI chess engine in GO for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolveFile resolves a path to a file and returns an absolute path to
// it. An absolute input is only checked for existence. A relative input
// is searched relative to the working directory, the executable and the
// user home directory, in that order.
func ResolveFile(file string) (string, error) {
	file = filepath.Clean(file)

	if filepath.IsAbs(file) {
		if fileExists(file) {
			return file, nil
		}
		return file, fmt.Errorf("file could not be found: %s", file)
	}

	for _, dir := range searchDirs() {
		candidate := filepath.Join(dir, file)
		if fileExists(candidate) {
			return filepath.Clean(candidate), nil
		}
	}
	return file, fmt.Errorf("file could not be found: %s", file)
}

// ResolveFolder resolves a path to a folder the same way ResolveFile
// resolves files. The folder will not be created.
func ResolveFolder(folder string) (string, error) {
	folder = filepath.Clean(folder)

	if filepath.IsAbs(folder) {
		if folderExists(folder) {
			return folder, nil
		}
		return folder, fmt.Errorf("folder could not be found: %s", folder)
	}

	for _, dir := range searchDirs() {
		candidate := filepath.Join(dir, folder)
		if folderExists(candidate) {
			return filepath.Clean(candidate), nil
		}
	}
	return folder, fmt.Errorf("folder could not be found: %s", folder)
}

// ResolveCreateFolder returns an absolute path to a folder and creates the
// folder when it does not exist. An absolute input is used as given. A
// relative input is reduced to its last path element, which is looked up
// or created in the working directory, falling back to the os temp
// directory when it cannot be created there. Unlike ResolveFolder it does
// not search the executable or user home directories.
func ResolveCreateFolder(folderPath string) (string, error) {
	folderPath = filepath.Clean(folderPath)

	if filepath.IsAbs(folderPath) {
		if folderExists(folderPath) {
			return folderPath, nil
		}
		return folderPath, os.Mkdir(folderPath, 0755)
	}

	dir, _ := os.Getwd()
	folderPath = filepath.Join(dir, filepath.Base(folderPath))
	if folderExists(folderPath) {
		return folderPath, nil
	}
	if err := os.Mkdir(folderPath, 0755); err == nil {
		return folderPath, nil
	}

	folderPath = filepath.Join(os.TempDir(), filepath.Base(folderPath))
	if folderExists(folderPath) {
		return folderPath, nil
	}
	return folderPath, os.Mkdir(folderPath, 0755)
}

// searchDirs returns the base directories relative paths are resolved
// against, in search order.
func searchDirs() []string {
	var dirs []string
	if dir, err := os.Getwd(); err == nil {
		dirs = append(dirs, dir)
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	if dir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, dir)
	}
	return dirs
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && info.Mode().IsRegular()
}

func folderExists(foldername string) bool {
	info, err := os.Stat(foldername)
	return err == nil && info.Mode().IsDir()
}
