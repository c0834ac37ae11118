package vodfs

import "testing"

func TestFileName_sanitized(t *testing.T) {
	cases := map[string]string{
		"aula01_introducao.mp4": "aula01_introducao.mp4",
		"course/aula02.mp4":     "course_aula02.mp4",
		`win\path.mp4`:          "win_path.mp4",
		"":                      "unknown",
		"..":                    "unknown",
	}
	for in, want := range cases {
		if got := fileName(in); got != want {
			t.Errorf("fileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUniqueNames_collisions(t *testing.T) {
	got := uniqueNames([]string{"a/b.mp4", "a_b.mp4", "a\\b.mp4", "c.mp4"})
	want := []string{"a_b.mp4", "a_b.mp4~2", "a_b.mp4~3", "c.mp4"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("name %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestInoFromString_stable(t *testing.T) {
	if inoFromString("x") != inoFromString("x") {
		t.Error("ino should be stable")
	}
	if inoFromString("x") == inoFromString("y") {
		t.Error("different ids should get different inodes")
	}
}
