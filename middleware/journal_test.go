package middleware_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bryanbartow/reactor"
	"github.com/bryanbartow/reactor/middleware"
	"github.com/bryanbartow/reactor/testutil"
)

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

func TestJournal_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	j := middleware.NewJournal[account](&buf, middleware.WithClock(fixedClock))

	core := reactor.New(account{}, reactor.WithMiddleware[account](j))
	core.Fire(deposit{Amount: 7})
	core.Fire(withdraw{Amount: 100})
	core.Fire(withdraw{Amount: 3})
	testutil.Drain(t, core)

	if err := j.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := j.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}

	entries, err := middleware.ReadJournal[account](&buf)
	if err != nil {
		t.Fatalf("ReadJournal failed: %v", err)
	}
	want := []middleware.Entry[account]{
		{Seq: 1, Type: "middleware_test.deposit", State: account{Balance: 7, Ops: 1}},
		{Seq: 2, Type: "middleware_test.withdraw", State: account{Balance: 7, Ops: 1}},
		{Seq: 3, Type: "middleware_test.withdraw", State: account{Balance: 4, Ops: 2}},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, w := range want {
		got := entries[i]
		if got.Seq != w.Seq || got.Type != w.Type || got.State != w.State {
			t.Errorf("entry %d = %+v, want %+v", i, got, w)
		}
		if !got.Timestamp.Equal(fixedTime) {
			t.Errorf("entry %d timestamp = %v, want %v", i, got.Timestamp, fixedTime)
		}
	}

	ev, ok := entries[0].Event.(map[string]any)
	if !ok || ev["amount"] != 7 {
		t.Errorf("entry 0 event = %#v, want amount 7", entries[0].Event)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestJournal_KeepsFirstError(t *testing.T) {
	j := middleware.NewJournal[account](failingWriter{})
	j.Process(deposit{Amount: 1}, account{Balance: 1})
	j.Process(deposit{Amount: 1}, account{Balance: 2})

	err := j.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "journal entry 1") {
		t.Errorf("err = %v, want first entry error", err)
	}
}

func TestOpenJournal_CreatesDirAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.yaml")

	// Each session reopens the file and appends two entries.
	for run := 0; run < 3; run++ {
		j, err := middleware.OpenJournal[account](path, middleware.WithClock(fixedClock))
		if err != nil {
			t.Fatalf("OpenJournal failed: %v", err)
		}
		j.Process(deposit{Amount: 1}, account{Balance: 10*run + 1})
		j.Process(deposit{Amount: 1}, account{Balance: 10*run + 2})
		if err := j.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	entries, err := middleware.ReadJournal[account](f)
	if err != nil {
		t.Fatalf("ReadJournal failed: %v", err)
	}
	if len(entries) != 6 {
		t.Fatalf("got %d entries, want 6", len(entries))
	}
	want := []int{1, 2, 11, 12, 21, 22}
	for i, e := range entries {
		if e.State.Balance != want[i] {
			t.Errorf("entry %d Balance = %d, want %d", i, e.State.Balance, want[i])
		}
		if wantSeq := uint64(i%2 + 1); e.Seq != wantSeq {
			t.Errorf("entry %d Seq = %d, want %d", i, e.Seq, wantSeq)
		}
	}
}

func TestReadJournal_Malformed(t *testing.T) {
	_, err := middleware.ReadJournal[account](strings.NewReader("seq: [unterminated"))
	if err == nil {
		t.Fatal("expected decode error")
	}
}
