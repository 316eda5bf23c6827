package progress

import (
	"context"
	"testing"
)

func TestMemoryStore_SnapshotIsPointInTime(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	answers := map[string]interface{}{"q1": "a", "q2": []string{"x"}}
	if err := st.SaveProgress(ctx, "local", "lectures/week1.md", Snapshot{
		CurrentIndex: 1,
		Answers:      answers,
	}); err != nil {
		t.Fatal(err)
	}

	// mutations after save must not reach the stored record
	answers["q2"] = append(answers["q2"].([]string), "y")
	answers["q3"] = "late"

	got, ok, err := st.LoadProgress(ctx, "local", "lectures/week1.md")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if _, leaked := got.Answers["q3"]; leaked {
		t.Fatalf("stored snapshot mutated after save: %v", got.Answers)
	}
	if ss := got.Answers["q2"].([]string); len(ss) != 1 || ss[0] != "x" {
		t.Fatalf("stored option set mutated after save: %v", ss)
	}
}

func TestMemoryStore_LoadedSnapshotIsDetached(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	if err := st.SaveProgress(ctx, "local", "lectures/week1.md", Snapshot{
		Answers: map[string]interface{}{"q1": "a"},
	}); err != nil {
		t.Fatal(err)
	}

	first, _, _ := st.LoadProgress(ctx, "local", "lectures/week1.md")
	first.Answers["q1"] = "mutated"
	first.Answers["q2"] = "b"

	second, _, _ := st.LoadProgress(ctx, "local", "lectures/week1.md")
	if second.Answers["q1"] != "a" || len(second.Answers) != 1 {
		t.Fatalf("two loads share one map: %v", second.Answers)
	}
}
