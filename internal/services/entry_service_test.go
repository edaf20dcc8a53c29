package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"possu/internal/core"
	"possu/internal/log"
)

type fakeStore struct {
	next    int64
	err     error
	created []core.Entry
	closed  bool
}

func (f *fakeStore) CreateEntry(_ context.Context, e core.Entry) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.next++
	f.created = append(f.created, e)
	return f.next, nil
}

func (f *fakeStore) Close() error { f.closed = true; return nil }

type fakePublisher struct {
	err       error
	published []int64
	closeErr  error
}

func (f *fakePublisher) PublishEntrySync(_ context.Context, id int64) error {
	f.published = append(f.published, id)
	return f.err
}

func (f *fakePublisher) Close() error { return f.closeErr }

func testEntry() core.Entry {
	return core.Entry{
		Date:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Description: "bus",
		Amount:      core.Money{Cents: 250},
		Category:    "Transport",
	}
}

func newLogger(buf *bytes.Buffer) *log.Logger {
	return log.New(log.Config{Output: buf})
}

func TestCreateEntryPublishes(t *testing.T) {
	store, pub := &fakeStore{}, &fakePublisher{}
	svc := NewEntryService(store, pub, newLogger(&bytes.Buffer{}))

	id, err := svc.CreateEntry(context.Background(), testEntry())
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if id != 1 || len(pub.published) != 1 || pub.published[0] != 1 {
		t.Fatalf("id = %d, published = %v", id, pub.published)
	}
}

func TestCreateEntryPublishFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	store, pub := &fakeStore{}, &fakePublisher{err: errors.New("broker down")}
	svc := NewEntryService(store, pub, newLogger(&buf))

	ref, err := svc.Append(context.Background(), testEntry())
	if err != nil {
		t.Fatalf("publish failure must not fail the entry: %v", err)
	}
	if ref != "1" {
		t.Fatalf("ref = %q", ref)
	}
	if !strings.Contains(buf.String(), "broker down") {
		t.Fatalf("expected publish error in log, got %q", buf.String())
	}
}

func TestCreateEntryWithoutPublisher(t *testing.T) {
	store := &fakeStore{}
	svc := NewEntryService(store, nil, newLogger(&bytes.Buffer{}))
	if _, err := svc.CreateEntry(context.Background(), testEntry()); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("entry not stored")
	}
}

func TestCreateEntryStoreError(t *testing.T) {
	store, pub := &fakeStore{err: core.ErrEmptyCategory}, &fakePublisher{}
	svc := NewEntryService(store, pub, newLogger(&bytes.Buffer{}))

	_, err := svc.CreateEntry(context.Background(), testEntry())
	if !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if len(pub.published) != 0 {
		t.Fatal("nothing should be published when the store fails")
	}
}

func TestCloseJoinsErrors(t *testing.T) {
	store, pub := &fakeStore{}, &fakePublisher{closeErr: errors.New("amqp close")}
	svc := NewEntryService(store, pub, nil)
	err := svc.Close()
	if err == nil || !strings.Contains(err.Error(), "amqp close") {
		t.Fatalf("Close = %v", err)
	}
	if !store.closed {
		t.Fatal("store should be closed even when the publisher fails")
	}
}
