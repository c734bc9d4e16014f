package resource

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"

	"github.com/kbukum/dmnkit/errors"
	"github.com/kbukum/dmnkit/logger"
)

// locationPrefixes are stripped from locations before resolution.
var locationPrefixes = []string{"classpath*:", "classpath:", "file:"}

// Resource is one discovered deployment file.
type Resource struct {
	// Path is the file path on the discovery filesystem.
	Path string
	// Name is the path relative to the discovery location.
	Name string
	// Size in bytes.
	Size int64

	fs afero.Fs
}

// Open opens the resource for reading.
func (r Resource) Open() (afero.File, error) {
	return r.fs.Open(r.Path)
}

// ReadAll returns the resource content.
func (r Resource) ReadAll() ([]byte, error) {
	f, err := r.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Resolver discovers deployment resources.
type Resolver interface {
	Discover(location string, suffixes []string, enabled bool) ([]Resource, error)
}

// FSResolver resolves resources on an afero filesystem.
type FSResolver struct {
	Fs afero.Fs
}

// NewResolver returns a Resolver over fs. A nil fs means the OS filesystem.
func NewResolver(fs afero.Fs) *FSResolver {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FSResolver{Fs: fs}
}

// Discover implements Resolver.
func (r *FSResolver) Discover(location string, suffixes []string, enabled bool) ([]Resource, error) {
	return Discover(r.Fs, location, suffixes, enabled)
}

// Discover returns every file under location matching one of the suffix
// globs, or nothing when enabled is false. Results are grouped by suffix in
// the given order, sorted by path within a suffix, and a file matched by
// several suffixes is listed once. A location that does not exist yields no
// resources; any other filesystem error is a DISCOVERY_FAILED error.
func Discover(fs afero.Fs, location string, suffixes []string, enabled bool) ([]Resource, error) {
	if !enabled {
		return nil, nil
	}

	root := NormalizeLocation(location)
	matchers := make([]glob.Glob, 0, len(suffixes))
	for _, suffix := range suffixes {
		g, err := glob.Compile(path.Join(root, suffix), '/')
		if err != nil {
			return nil, errors.DiscoveryFailed(location, err).WithDetail("suffix", suffix)
		}
		matchers = append(matchers, g)
	}

	files, err := listFiles(fs, root)
	if err != nil {
		return nil, errors.DiscoveryFailed(location, err)
	}

	seen := make(map[string]bool)
	var resources []Resource
	for _, m := range matchers {
		for _, f := range files {
			if seen[f.path] || !m.Match(f.path) {
				continue
			}
			seen[f.path] = true
			resources = append(resources, Resource{
				Path: f.path,
				Name: relativeName(root, f.path),
				Size: f.size,
				fs:   fs,
			})
		}
	}

	if len(resources) == 0 {
		logger.Info("No deployment resources were found for autodeployment", map[string]interface{}{
			logger.FieldLocation: location,
		})
	} else {
		logger.Debug("Deployment resources discovered", map[string]interface{}{
			logger.FieldLocation:      location,
			logger.FieldResourceCount: len(resources),
		})
	}
	return resources, nil
}

// NormalizeLocation strips URL-style prefixes and cleans the path. An empty
// location is the filesystem root of the process (".").
func NormalizeLocation(location string) string {
	loc := strings.TrimSpace(location)
	for _, p := range locationPrefixes {
		if strings.HasPrefix(loc, p) {
			loc = strings.TrimPrefix(loc, p)
			break
		}
	}
	loc = filepath.ToSlash(loc)
	if loc == "" {
		return "."
	}
	return path.Clean(loc)
}

type fileEntry struct {
	path string
	size int64
}

// listFiles walks root and returns regular files in lexical order.
func listFiles(fs afero.Fs, root string) ([]fileEntry, error) {
	if _, err := fs.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []fileEntry
	err := afero.Walk(fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		files = append(files, fileEntry{path: filepath.ToSlash(p), size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].path < files[j].path })
	return files, nil
}

func relativeName(root, p string) string {
	if root == "." {
		return p
	}
	return strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
}

// Names returns the Name of every resource.
func Names(resources []Resource) []string {
	names := make([]string, len(resources))
	for i, r := range resources {
		names[i] = r.Name
	}
	return names
}
