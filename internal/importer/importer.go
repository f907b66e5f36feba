package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/nlbank/internal/model"
)

// Importer claims bank exports by filename and converts them to transactions.
type Importer interface {
	Name() string
	Identify(path string) (Match, bool)
	Extract(path string) ([]model.Transaction, error)
}

// BankImporter is an Importer for one institution's CSV export format.
type BankImporter struct {
	*Extractor
	name     string
	matchers []fileMatcher
}

// Name returns the importer name.
func (b *BankImporter) Name() string { return b.name }

// Identify reports whether one of the institution's accounts claims path.
func (b *BankImporter) Identify(path string) (Match, bool) {
	return identify(b.matchers, path)
}

// Options configures the built-in importers.
type Options struct {
	Currency string
	Encoding map[string]string // importer name -> file encoding
	Log      zerolog.Logger
}

func newBankImporter(name string, inst model.Institution, d Dialect, dec Decoder, accts Accounts, opts Options) (*BankImporter, error) {
	matchers, err := compileMatchers(accts.ByInstitution(inst))
	if err != nil {
		return nil, fmt.Errorf("%s importer: %w", name, err)
	}
	if enc, ok := opts.Encoding[name]; ok {
		d.Encoding = enc
	}
	dec.Currency = model.ParseCurrency(opts.Currency)
	return &BankImporter{
		Extractor: &Extractor{
			Institution: inst,
			Dialect:     d,
			Decoder:     dec,
			Accounts:    accts,
			Log:         opts.Log.With().Str("importer", name).Logger(),
		},
		name:     name,
		matchers: matchers,
	}, nil
}

// Registry holds named importers.
type Registry struct {
	importers map[string]Importer
}

// NewRegistry creates an empty importer registry.
func NewRegistry() *Registry {
	return &Registry{importers: make(map[string]Importer)}
}

// Register adds an importer. Panics on duplicate name.
func (r *Registry) Register(imp Importer) {
	key := strings.ToLower(imp.Name())
	if _, ok := r.importers[key]; ok {
		panic("duplicate importer: " + key)
	}
	r.importers[key] = imp
}

// Get returns the importer for name, or nil.
func (r *Registry) Get(name string) Importer {
	return r.importers[strings.ToLower(name)]
}

// Identify returns the first importer, in name order, that claims path.
func (r *Registry) Identify(path string) (Importer, Match, bool) {
	names := make([]string, 0, len(r.importers))
	for name := range r.importers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		imp := r.importers[name]
		if m, ok := imp.Identify(path); ok {
			return imp, m, true
		}
	}
	return nil, Match{}, false
}

// DefaultRegistry returns a registry with the ASN and Bunq importers.
func DefaultRegistry(accts Accounts, opts Options) (*Registry, error) {
	asn, err := NewASN(accts, opts)
	if err != nil {
		return nil, err
	}
	bunq, err := NewBunq(accts, opts)
	if err != nil {
		return nil, err
	}

	r := NewRegistry()
	r.Register(asn)
	r.Register(bunq)
	return r, nil
}

// FileInfo describes a CSV file waiting in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// processedDir is the subdirectory of the import directory for handled exports.
const processedDir = "processed"

// Scan returns the CSV files directly inside dir, sorted by name.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves path into the processed/ directory next to it.
func MarkProcessed(path string) (string, error) {
	dstDir := filepath.Join(filepath.Dir(path), processedDir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, filepath.Base(path))
	if err := os.Rename(path, dst); err != nil {
		return "", fmt.Errorf("moving %s to processed: %w", filepath.Base(path), err)
	}
	return dst, nil
}
