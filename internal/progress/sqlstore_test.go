package progress_test

import (
	"context"
	"testing"

	"github.com/ericplane/classnotes-quiz/internal/db"
	"github.com/ericplane/classnotes-quiz/internal/progress"
)

func newSQLiteStore(t *testing.T) *progress.SQLStore {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return progress.NewSQLStore(dbh)
}

func TestSQLStore_ProgressRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newSQLiteStore(t)

	if _, ok, err := st.LoadProgress(ctx, "local", "lectures/week1.md"); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	snap := progress.Snapshot{
		CurrentIndex: 2,
		Answers: map[string]interface{}{
			"q1": "a",
			"q2": []interface{}{"a", "b"},
		},
	}
	if err := st.SaveProgress(ctx, "local", "lectures/week1.md", snap); err != nil {
		t.Fatal(err)
	}

	got, ok, err := st.LoadProgress(ctx, "local", "lectures/week1.md")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.CurrentIndex != 2 {
		t.Fatalf("index: %d", got.CurrentIndex)
	}
	if got.Answers["q1"] != "a" {
		t.Fatalf("answers: %v", got.Answers)
	}

	// overwrite wins
	snap.CurrentIndex = 0
	if err := st.SaveProgress(ctx, "local", "lectures/week1.md", snap); err != nil {
		t.Fatal(err)
	}
	got, _, _ = st.LoadProgress(ctx, "local", "lectures/week1.md")
	if got.CurrentIndex != 0 {
		t.Fatalf("overwrite lost: %d", got.CurrentIndex)
	}

	// scoped by learner
	if _, ok, _ := st.LoadProgress(ctx, "other", "lectures/week1.md"); ok {
		t.Fatal("progress leaked across learners")
	}

	if err := st.ClearProgress(ctx, "local", "lectures/week1.md"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := st.LoadProgress(ctx, "local", "lectures/week1.md"); ok {
		t.Fatal("clear did not remove the snapshot")
	}
}

func TestSQLStore_AttemptsAppendOnly(t *testing.T) {
	ctx := context.Background()
	st := newSQLiteStore(t)

	for i, a := range []progress.Attempt{
		{Timestamp: 100, Score: 1, PointsTotal: 2, Percent: 50, DurationSeconds: 30},
		{Timestamp: 200, Score: 2, PointsTotal: 2, Percent: 100, DurationSeconds: 12},
	} {
		if err := st.AppendAttempt(ctx, "local", "lectures/week1.md", a); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got, err := st.ListAttempts(ctx, "local", "lectures/week1.md")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("attempts: %d", len(got))
	}
	if got[0].Timestamp != 100 || got[1].Timestamp != 200 {
		t.Fatalf("order not append order: %+v", got)
	}
	if got[1].Percent != 100 || got[0].DurationSeconds != 30 {
		t.Fatalf("fields lost: %+v", got)
	}

	other, _ := st.ListAttempts(ctx, "local", "lectures/week2.md")
	if len(other) != 0 {
		t.Fatalf("history leaked across lectures: %+v", other)
	}
}
