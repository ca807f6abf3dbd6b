package lawdict

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"

	"go.ngs.io/jplaw-cite/pkg/errs"
)

// Metadata holds the per-id information retained alongside the three
// lookup indexes (spec §3).
type Metadata struct {
	LawId           LawId
	CanonicalTitle  string
	Reading         string
	OldTitle        string
	Kind            Kind
	LawNumber       string
	PromulgationDate string
	EffectiveDate    string
}

// Dictionary is the in-memory, build-once, read-only-after-build index from
// canonical titles, abbreviations, and law-number strings into LawId values
// (spec §3/§4.2). Concurrent readers are safe; Load* methods are intended to
// run once, single-threaded, before any reader goroutine starts.
type Dictionary struct {
	mu sync.RWMutex

	titleIndex  map[string]LawId
	abbrevIndex map[string]LawId
	numberIndex map[string]LawId
	metadata    map[LawId]*Metadata

	// conflicts retains every abbreviation collision for diagnostics. Per
	// spec §4.2 this is never consulted by the detector; it exists purely
	// for offline inspection (e.g. a future `build-dictionary --report`).
	conflicts map[string][]LawId
}

// New creates an empty Dictionary ready for loading.
func New() *Dictionary {
	return &Dictionary{
		titleIndex:  make(map[string]LawId),
		abbrevIndex: make(map[string]LawId),
		numberIndex: make(map[string]LawId),
		metadata:    make(map[LawId]*Metadata),
		conflicts:   make(map[string][]LawId),
	}
}

// expected CSV header, in column order, per spec §6: "at least the columns
// {kind, number, canonical title, reading, old title, promulgation date,
// effective date, law id}".
var expectedColumns = []string{
	"kind", "number", "canonical_title", "reading", "old_title",
	"promulgation_date", "effective_date", "law_id",
}

// LoadFile opens path and loads the corpus listing from it. Wraps
// errs.ErrFatal on any I/O failure, per spec §7 ("dictionary source
// unreadable at startup" is Fatal).
func (d *Dictionary) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening dictionary source %s: %w", path, errs.ErrFatal)
	}
	defer f.Close()
	return d.Load(f)
}

// Load reads a UTF-8 delimited corpus listing with a header row (spec §6)
// and registers each valid record in file order. Records with an empty id
// or title are skipped, not errors.
func (d *Dictionary) Load(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("reading dictionary header: %w", errs.ErrFatal)
	}
	col := columnIndex(header)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading dictionary record: %w", errs.ErrDataDefect)
		}

		entry := recordToMetadata(record, col)
		if entry.LawId == "" || entry.CanonicalTitle == "" {
			continue
		}
		d.register(entry)
	}
	return nil
}

// columnIndex maps each expected column name to its position in header,
// falling back to the canonical positional order (spec's listed column
// order) when a column name is missing from the header.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(expectedColumns))
	for i, name := range header {
		idx[name] = i
	}
	for i, name := range expectedColumns {
		if _, ok := idx[name]; !ok {
			idx[name] = i
		}
	}
	return idx
}

func recordToMetadata(record []string, col map[string]int) *Metadata {
	get := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	return &Metadata{
		LawId:            LawId(get("law_id")),
		CanonicalTitle:   get("canonical_title"),
		Reading:          get("reading"),
		OldTitle:         get("old_title"),
		Kind:             Kind(get("kind")),
		LawNumber:        get("number"),
		PromulgationDate: get("promulgation_date"),
		EffectiveDate:    get("effective_date"),
	}
}

// register inserts one dictionary entry: the canonical title (unique),
// every derived/well-known abbreviation (first insertion wins, conflicts
// retained), the law-number string, the old title (also indexed as a
// title), and the metadata record.
func (d *Dictionary) register(entry *Metadata) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.metadata[entry.LawId] = entry

	if _, exists := d.titleIndex[entry.CanonicalTitle]; !exists {
		d.titleIndex[entry.CanonicalTitle] = entry.LawId
	}
	if entry.OldTitle != "" {
		if _, exists := d.titleIndex[entry.OldTitle]; !exists {
			d.titleIndex[entry.OldTitle] = entry.LawId
		}
	}
	if entry.LawNumber != "" {
		if _, exists := d.numberIndex[entry.LawNumber]; !exists {
			d.numberIndex[entry.LawNumber] = entry.LawId
		}
		if id, ok := ParseLawNumber(entry.LawNumber); ok {
			if _, exists := d.numberIndex[string(id)]; !exists {
				d.numberIndex[string(id)] = entry.LawId
			}
		}
	}

	for _, abbr := range deriveAbbreviations(entry.CanonicalTitle) {
		d.conflicts[abbr] = append(d.conflicts[abbr], entry.LawId)
		if _, exists := d.abbrevIndex[abbr]; !exists {
			d.abbrevIndex[abbr] = entry.LawId
		}
	}
}

// FindByTitle looks up a canonical (or old) title.
func (d *Dictionary) FindByTitle(name string) (LawId, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.titleIndex[name]
	return id, ok
}

// FindByAbbreviation looks up a customary short title.
func (d *Dictionary) FindByAbbreviation(name string) (LawId, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.abbrevIndex[name]
	return id, ok
}

// FindByNumber looks up either the raw law-number string as it appeared in
// the corpus CSV, or its canonically re-encoded LawId-format string.
func (d *Dictionary) FindByNumber(number string) (LawId, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.numberIndex[number]
	return id, ok
}

// Resolve tries title, then abbreviation, then number, in that order —
// the common case for resolving a free-form matched name back to a LawId
// (used by the Defined-term binding phase, spec §4.5 phase 4).
func (d *Dictionary) Resolve(name string) (LawId, bool) {
	if id, ok := d.FindByTitle(name); ok {
		return id, true
	}
	if id, ok := d.FindByAbbreviation(name); ok {
		return id, true
	}
	if id, ok := d.FindByNumber(name); ok {
		return id, true
	}
	return "", false
}

// Metadata returns the metadata record for id.
func (d *Dictionary) Metadata(id LawId) (*Metadata, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.metadata[id]
	return m, ok
}

// Conflicts returns the full abbreviation-collision ledger, for offline
// diagnostics only (spec §4.2: "does not expose it to the detector").
func (d *Dictionary) Conflicts() map[string][]LawId {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string][]LawId, len(d.conflicts))
	for k, v := range d.conflicts {
		if len(v) > 1 {
			cp := make([]LawId, len(v))
			copy(cp, v)
			out[k] = cp
		}
	}
	return out
}

// Len returns the number of distinct laws registered.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.metadata)
}
