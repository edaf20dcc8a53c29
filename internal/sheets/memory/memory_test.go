package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"possu/internal/core"
)

func entry(y, m, d int, cents int64, cat string) core.Entry {
	return core.Entry{
		Date:        time.Date(y, time.Month(m), d, 9, 0, 0, 0, time.UTC),
		Description: "t",
		Amount:      core.Money{Cents: cents},
		Category:    cat,
	}
}

func TestMemoryStoreAppendAndList(t *testing.T) {
	ctx := context.Background()
	s := New([]string{"A", "B", "A", " "})
	cats, err := s.List(ctx)
	if err != nil || len(cats) != 2 {
		t.Fatalf("unexpected list: cats=%v err=%v", cats, err)
	}

	ref, err := s.Append(ctx, entry(2024, 3, 1, 123, "A"))
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}
	if _, err := s.Append(ctx, core.Entry{}); err == nil {
		t.Fatal("invalid entry should be rejected")
	}
	if _, err := s.Append(ctx, entry(2024, 3, 9, 77, "B")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Append(ctx, entry(2024, 4, 1, 1, "B")); err != nil {
		t.Fatal(err)
	}

	list, _ := s.ListEntries(ctx, 2024, 3)
	if len(list) != 2 || list[0].ID != 1 {
		t.Fatalf("unexpected entries %+v", list)
	}
	ov, _ := s.ReadMonthOverview(ctx, 2024, 3)
	if ov.Total.Cents != 200 || len(ov.ByCategory) != 2 {
		t.Fatalf("unexpected overview %+v", ov)
	}
}

func TestNewFromFileSeeds(t *testing.T) {
	dir := t.TempDir()

	s, err := NewFromFile(filepath.Join(dir, "seed.toml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	cats, _ := s.List(context.Background())
	if len(cats) != len(DefaultCategories) {
		t.Fatalf("expected defaults, got %v", cats)
	}

	path := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(path, []byte("# seed\ncategories = [\"Food\", \"Rent\", \"Food\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err = NewFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	cats, _ = s.List(context.Background())
	if len(cats) != 2 || cats[0] != "Food" || cats[1] != "Rent" {
		t.Fatalf("unexpected categories %v", cats)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("categories = [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFromFile(bad); err == nil {
		t.Fatal("malformed seed should fail")
	}
}
