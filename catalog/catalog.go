// Package catalog implements the in-memory update package catalog: JSON
// manifest I/O, directory rescans, version-tuple applicability, and
// selection of the best-applicable package for a device build.
package catalog

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
)

// Package describes one update package in the catalog.
type Package struct {
	Name             string `json:"name"`
	Version          string `json:"version"`
	Filename         string `json:"filename"`
	Size             int64  `json:"size"`
	MD5              string `json:"md5"`
	Description      string `json:"description"`
	MinVersion       string `json:"min_version,omitempty"`
	TargetBuild      string `json:"target_build,omitempty"`
	InstallNotifyURL string `json:"install_notify_url,omitempty"`
}

// Applies reports whether the package applies to a device at the given
// build: the device must be at or past MinVersion and strictly below
// TargetBuild, whenever either is set.
func (p Package) Applies(deviceBuild string) bool {
	device := parseVersion(deviceBuild)
	if p.MinVersion != "" && device.less(parseVersion(p.MinVersion)) {
		return false
	}
	if p.TargetBuild != "" && !device.less(parseVersion(p.TargetBuild)) {
		return false
	}
	return true
}

// sortKey is the version used to rank applicable candidates: target
// build when set, else the package's own version.
func (p Package) sortKey() version {
	if p.TargetBuild != "" {
		return parseVersion(p.TargetBuild)
	}
	return parseVersion(p.Version)
}

type manifest struct {
	Packages []Package `json:"packages"`
}

// IOError reports a manifest that could not be read, parsed, or written.
// A manifest read failure leaves the in-memory catalog empty rather than
// aborting startup.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("catalog: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Catalog is the package set for one packages directory. Reads never
// lock: a rescan builds a fresh snapshot and swaps it in atomically.
type Catalog struct {
	dir      string
	snapshot atomic.Pointer[snapshotData]
}

type snapshotData struct {
	byName map[string]Package
}

// New returns a Catalog rooted at dir, loading manifest.json if present.
// A missing manifest starts the catalog empty; an unreadable or corrupt
// one also starts it empty, and New returns the IOError alongside the
// usable Catalog for the caller to log.
func New(dir string) (*Catalog, error) {
	c := &Catalog{dir: dir}
	c.snapshot.Store(&snapshotData{byName: map[string]Package{}})

	path := filepath.Join(dir, "manifest.json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return c, &IOError{Op: "read manifest", Path: path, Err: err}
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return c, &IOError{Op: "parse manifest", Path: path, Err: err}
	}

	byName := make(map[string]Package, len(m.Packages))
	for _, p := range m.Packages {
		byName[p.Name] = p
	}
	c.snapshot.Store(&snapshotData{byName: byName})
	return c, nil
}

func (c *Catalog) packages() map[string]Package {
	return c.snapshot.Load().byName
}

// List returns every catalogued package.
func (c *Catalog) List() []Package {
	byName := c.packages()
	out := make([]Package, 0, len(byName))
	for _, p := range byName {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns the package named name, if catalogued.
func (c *Catalog) Get(name string) (Package, bool) {
	p, ok := c.packages()[name]
	return p, ok
}

// CheckUpdate returns the applicable package with the largest sort key
// (target_build, falling back to version), or false if none applies.
// Model and carrier are accepted for parity with the query API but do
// not affect selection. Candidates are walked in the deterministic name
// order List() returns, not map iteration order, so ties resolve the
// same way on every call.
func (c *Catalog) CheckUpdate(deviceBuild, _model, _carrier string) (Package, bool) {
	var best Package
	haveBest := false
	for _, p := range c.List() {
		if !p.Applies(deviceBuild) {
			continue
		}
		if !haveBest || best.sortKey().less(p.sortKey()) {
			best = p
			haveBest = true
		}
	}
	return best, haveBest
}

// PackagePath resolves filename to a path under the packages directory,
// for the range-read file store adapter.
func (c *Catalog) PackagePath(filename string) string {
	return filepath.Join(c.dir, filename)
}

// PackageURL builds the download URL for a package under baseURL.
func (c *Catalog) PackageURL(p Package, baseURL string) string {
	return baseURL + "/packages/" + p.Filename
}

// Rescan lists *.ipk/*.dipk files in the packages directory not already
// catalogued, hashes them, and appends a manifest entry with a
// synthesized description and default version "1.0.0", then persists
// the manifest and swaps in the new snapshot.
func (c *Catalog) Rescan() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		if mkErr := os.MkdirAll(c.dir, 0o755); mkErr != nil {
			return 0, &IOError{Op: "create packages dir", Path: c.dir, Err: mkErr}
		}
		return 0, nil
	}
	if err != nil {
		return 0, &IOError{Op: "list packages dir", Path: c.dir, Err: err}
	}

	existingFilenames := make(map[string]bool)
	byName := make(map[string]Package)
	for name, p := range c.packages() {
		byName[name] = p
		existingFilenames[p.Filename] = true
	}

	added := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".ipk" && ext != ".dipk" {
			continue
		}
		if existingFilenames[name] {
			continue
		}

		pkg, err := c.createPackageEntry(name)
		if err != nil {
			return added, err
		}
		byName[pkg.Name] = pkg
		added++
	}

	if added > 0 {
		if err := c.saveManifest(byName); err != nil {
			return added, err
		}
		c.snapshot.Store(&snapshotData{byName: byName})
	}
	return added, nil
}

func (c *Catalog) createPackageEntry(filename string) (Package, error) {
	path := filepath.Join(c.dir, filename)
	info, err := os.Stat(path)
	if err != nil {
		return Package{}, &IOError{Op: "stat package", Path: path, Err: err}
	}

	sum, err := md5File(path)
	if err != nil {
		return Package{}, &IOError{Op: "hash package", Path: path, Err: err}
	}

	name := filename[:len(filename)-len(filepath.Ext(filename))]
	return Package{
		Name:        name,
		Version:     "1.0.0",
		Filename:    filename,
		Size:        info.Size(),
		MD5:         sum,
		Description: "Update package: " + name,
	}, nil
}

// AddPackage copies the file at sourcePath into the packages directory
// (when it isn't already there), hashes it, and registers p in the
// manifest.
func (c *Catalog) AddPackage(p Package, sourcePath string) (Package, error) {
	dest := filepath.Join(c.dir, p.Filename)
	if sourcePath != dest {
		if err := copyFile(sourcePath, dest); err != nil {
			return Package{}, &IOError{Op: "copy package", Path: sourcePath, Err: err}
		}
	}

	info, err := os.Stat(dest)
	if err != nil {
		return Package{}, &IOError{Op: "stat package", Path: dest, Err: err}
	}
	sum, err := md5File(dest)
	if err != nil {
		return Package{}, &IOError{Op: "hash package", Path: dest, Err: err}
	}
	p.Size = info.Size()
	p.MD5 = sum

	byName := make(map[string]Package)
	for name, existing := range c.packages() {
		byName[name] = existing
	}
	byName[p.Name] = p

	if err := c.saveManifest(byName); err != nil {
		return Package{}, err
	}
	c.snapshot.Store(&snapshotData{byName: byName})
	return p, nil
}

func (c *Catalog) saveManifest(byName map[string]Package) error {
	m := manifest{Packages: make([]Package, 0, len(byName))}
	for _, p := range byName {
		m.Packages = append(m.Packages, p)
	}
	sort.Slice(m.Packages, func(i, j int) bool { return m.Packages[i].Name < m.Packages[j].Name })

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return &IOError{Op: "marshal manifest", Path: c.dir, Err: err}
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return &IOError{Op: "create packages dir", Path: c.dir, Err: err}
	}

	path := filepath.Join(c.dir, "manifest.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &IOError{Op: "write manifest", Path: path, Err: err}
	}
	return nil
}

func md5File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
