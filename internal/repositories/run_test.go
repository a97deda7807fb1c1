package repositories

import (
	"testing"
	"time"

	"monthlify/internal/shared"
)

func newTestRepo(t *testing.T) *RunRepository {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo, err := NewRunRepository(db)
	if err != nil {
		t.Fatalf("NewRunRepository() error: %v", err)
	}
	return repo
}

func TestRunRepository(t *testing.T) {
	t.Run("create fills in ID and timestamp", func(t *testing.T) {
		repo := newTestRepo(t)

		record := RunRecord{Months: []string{"2025-03"}, Added: 2}
		if err := repo.Create(&record); err != nil {
			t.Fatalf("Create() error: %v", err)
		}

		if record.ID == "" {
			t.Error("ID not generated")
		}
		if record.RanAt.IsZero() {
			t.Error("RanAt not set")
		}
	})

	t.Run("list returns newest first", func(t *testing.T) {
		repo := newTestRepo(t)

		base := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
		for i := 0; i < 3; i++ {
			record := RunRecord{
				RanAt:  base.Add(time.Duration(i) * time.Hour),
				Months: []string{"2025-03"},
				Added:  i,
			}
			if err := repo.Create(&record); err != nil {
				t.Fatalf("Create() error: %v", err)
			}
		}

		records, err := repo.List(0)
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("List() returned %d records", len(records))
		}
		if records[0].Added != 2 || records[2].Added != 0 {
			t.Errorf("records not newest first: %+v", records)
		}
	})

	t.Run("list honors the limit", func(t *testing.T) {
		repo := newTestRepo(t)

		for i := 0; i < 5; i++ {
			if err := repo.Create(&RunRecord{Months: []string{"2025-01"}}); err != nil {
				t.Fatalf("Create() error: %v", err)
			}
		}

		records, err := repo.List(2)
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("List(2) returned %d records", len(records))
		}
	})

	t.Run("months round trip through the months column", func(t *testing.T) {
		repo := newTestRepo(t)

		record := RunRecord{Months: []string{"2024-11", "2024-12", "2025-01"}}
		if err := repo.Create(&record); err != nil {
			t.Fatalf("Create() error: %v", err)
		}

		records, err := repo.List(1)
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		got := records[0].Months
		if len(got) != 3 || got[0] != "2024-11" || got[2] != "2025-01" {
			t.Errorf("Months = %v", got)
		}
	})

	t.Run("empty table lists nothing", func(t *testing.T) {
		repo := newTestRepo(t)

		records, err := repo.List(10)
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("List() = %+v", records)
		}
	})
}
