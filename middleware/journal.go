package middleware

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bryanbartow/reactor"
)

// Entry is one journal document.
type Entry[S any] struct {
	Seq       uint64    `json:"seq" yaml:"seq"`
	Type      string    `json:"type" yaml:"type"`
	Event     any       `json:"event,omitempty" yaml:"event,omitempty"`
	State     S         `json:"state" yaml:"state"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Journal writes every processed event and the resulting state as a stream
// of YAML documents. Process cannot return an error, so the first write
// error is kept, later entries are skipped, and Err reports it.
type Journal[S reactor.State[S]] struct {
	mu     sync.Mutex
	enc    *yaml.Encoder
	closer io.Closer
	seq    uint64
	err    error
	now    func() time.Time
}

// JournalOption configures a Journal.
type JournalOption func(*journalConfig)

type journalConfig struct {
	now    func() time.Time
	indent int
}

// WithClock sets the timestamp source.
func WithClock(now func() time.Time) JournalOption {
	return func(cfg *journalConfig) {
		cfg.now = now
	}
}

// WithIndent sets the YAML indentation (default 2).
func WithIndent(spaces int) JournalOption {
	return func(cfg *journalConfig) {
		cfg.indent = spaces
	}
}

// NewJournal creates a Journal writing to w.
func NewJournal[S reactor.State[S]](w io.Writer, opts ...JournalOption) *Journal[S] {
	cfg := journalConfig{now: time.Now, indent: 2}
	for _, opt := range opts {
		opt(&cfg)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(cfg.indent)
	return &Journal[S]{enc: enc, now: cfg.now}
}

// OpenJournal creates or appends to the journal file at path, ensuring its
// directory exists. Close closes the file.
func OpenJournal[S reactor.State[S]](path string, opts ...JournalOption) (*Journal[S], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// A fresh encoder writes no separator before its first document, so an
	// existing stream needs one or the first entry merges into the last.
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > 0 {
		if _, err := io.WriteString(f, "---\n"); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
	}
	j := NewJournal[S](f, opts...)
	j.closer = f
	return j, nil
}

// Process appends one entry.
func (j *Journal[S]) Process(event reactor.Event, state S) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.err != nil {
		return
	}
	j.seq++
	entry := Entry[S]{
		Seq:       j.seq,
		Type:      eventType(event),
		Event:     event,
		State:     state,
		Timestamp: j.now().UTC(),
	}
	if err := j.enc.Encode(entry); err != nil {
		j.err = fmt.Errorf("journal entry %d: %w", j.seq, err)
	}
}

// Err returns the first write error, if any.
func (j *Journal[S]) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Close flushes the encoder and closes the underlying file, if the journal
// owns one.
func (j *Journal[S]) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	err := j.enc.Close()
	if err != nil {
		err = fmt.Errorf("yaml close: %w", err)
	}
	if j.closer != nil {
		if cerr := j.closer.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		j.closer = nil
	}
	return err
}

// ReadJournal decodes every entry from r. Events decode as generic YAML
// values since their Go types are not recorded beyond Type.
func ReadJournal[S any](r io.Reader) ([]Entry[S], error) {
	dec := yaml.NewDecoder(r)
	var entries []Entry[S]
	for {
		var e Entry[S]
		if err := dec.Decode(&e); err != nil {
			if errors.Is(err, io.EOF) {
				return entries, nil
			}
			return entries, fmt.Errorf("yaml decode entry %d: %w", len(entries)+1, err)
		}
		entries = append(entries, e)
	}
}
