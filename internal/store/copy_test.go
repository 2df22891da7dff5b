package store

import "testing"

func TestCopyLayouts(t *testing.T) {
	src := setupTestStore(t)
	dst := setupTestStore(t)

	for _, seed := range []int64{1, 2, 3} {
		if _, err := src.SaveLayout(testLayout(t, seed)); err != nil {
			t.Fatal(err)
		}
	}
	// Already present in the destination.
	if _, err := dst.SaveLayout(testLayout(t, 2)); err != nil {
		t.Fatal(err)
	}

	dry, err := CopyLayouts(dst, src, true)
	if err != nil {
		t.Fatalf("CopyLayouts(dry run) failed: %v", err)
	}
	if dry.Copied != 3 {
		t.Errorf("dry run copied = %d, want 3", dry.Copied)
	}
	if n, _ := dst.Count(); n != 1 {
		t.Fatalf("dry run wrote rows: count = %d", n)
	}

	result, err := CopyLayouts(dst, src, false)
	if err != nil {
		t.Fatalf("CopyLayouts() failed: %v", err)
	}
	if result.Copied != 2 || result.Skipped != 1 {
		t.Errorf("result = %+v, want 2 copied, 1 skipped", result)
	}

	// Oldest first: seed 1 lands before seed 3.
	list, err := dst.ListLayouts(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0].Seed != 3 || list[1].Seed != 1 || list[2].Seed != 2 {
		t.Errorf("destination seeds in id order (newest first) = %+v", list)
	}

	again, err := CopyLayouts(dst, src, false)
	if err != nil {
		t.Fatal(err)
	}
	if again.Copied != 0 || again.Skipped != 3 {
		t.Errorf("rerun = %+v, want everything skipped", again)
	}
}
