package engine

import (
	"slices"
	"testing"
)

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		input    string
		want     Platform
		canBuild bool
	}{
		{"amd64-windows", Platform{ArchX86_64, OSWindows}, true},
		{"x86_64-win", Platform{ArchX86_64, OSWindows}, true},
		{"x86-64-windows", Platform{ArchX86_64, OSWindows}, true},
		{"amd64", Platform{ArchX86_64, OSWindows}, true},
		{"amd64-linux", Platform{ArchX86_64, OSLinux}, false},
		{"arm64-windows", Platform{ArchARM64, OSWindows}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePlatform(tt.input)
			if err != nil {
				t.Fatalf("ParsePlatform(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePlatform(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got.CanBuild() != tt.canBuild {
				t.Errorf("%v.CanBuild() = %v, want %v", got, got.CanBuild(), tt.canBuild)
			}
		})
	}
}

func TestParsePlatformInvalid(t *testing.T) {
	for _, input := range []string{"", "mips-windows", "amd64-plan9"} {
		if _, err := ParsePlatform(input); err == nil {
			t.Errorf("ParsePlatform(%q) should fail", input)
		}
	}
}

func TestDefaultPlatformString(t *testing.T) {
	if got := DefaultPlatform.String(); got != "x86_64-windows" {
		t.Errorf("DefaultPlatform.String() = %q, want %q", got, "x86_64-windows")
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"ret", "", 3},
		{"ret", "ret", 0},
		{"rett", "ret", 1},
		{"push rax", "push rbx", 1},
		{"mov rax,rbx", "mov rax, rbx", 1},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSimilarWords(t *testing.T) {
	candidates := []string{"push rax", "push rbx", "pop rax", "ret", "syscall"}

	got := SimilarWords("push rxx", candidates, 2)
	want := []string{"push rax", "push rbx"}
	if !slices.Equal(got, want) {
		t.Errorf("SimilarWords = %v, want %v", got, want)
	}

	if got := SimilarWords("ret", candidates, 3); len(got) != 0 {
		t.Errorf("exact match should not be suggested, got %v", got)
	}

	if got := SimilarWords("vfmadd231pd", candidates, 3); len(got) != 0 {
		t.Errorf("distant word should have no suggestions, got %v", got)
	}
}

func TestSimilarWordsLimit(t *testing.T) {
	candidates := []string{"push rax", "push rbx", "push rcx"}
	for _, limit := range []int{-1, 0} {
		if got := SimilarWords("push rxx", candidates, limit); len(got) != 0 {
			t.Errorf("SimilarWords with limit %d = %v, want none", limit, got)
		}
	}
	if got := SimilarWords("push rxx", candidates, 10); len(got) != 3 {
		t.Errorf("SimilarWords with limit 10 = %v, want all 3", got)
	}
}
