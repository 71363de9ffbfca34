package numbering

import (
	"errors"
	"fmt"
	"testing"
)

// ---------------------------------------------------------------------------
// TestNext - Counter advancement and deeper-level reset
// ---------------------------------------------------------------------------

func TestNext_DeeperLevelsRestart(t *testing.T) {
	t.Parallel()

	c := New()
	var got []string
	got = append(got, c.Next(1, FormatArabic))
	got = append(got, c.Next(1, FormatArabic))
	got = append(got, c.Next(2, FormatArabic))
	got = append(got, c.Next(2, FormatArabic))
	got = append(got, c.Next(1, FormatArabic))
	got = append(got, c.Next(2, FormatArabic))

	want := []string{"1.", "2.", "1.", "2.", "3.", "1."}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNext_NoneStillAdvances(t *testing.T) {
	t.Parallel()

	c := New()
	c.Next(2, FormatArabic)
	c.Next(3, FormatArabic)
	c.Next(3, FormatArabic)

	if got := c.Next(2, FormatNone); got != "" {
		t.Errorf("Next(2, none) = %q, want empty", got)
	}
	if got := c.Next(3, FormatArabic); got != "1." {
		t.Errorf("Next(3) after level-2 heading = %q, want %q", got, "1.")
	}
	if got := c.Next(4, ""); got != "" {
		t.Errorf("Next(4, \"\") = %q, want empty", got)
	}
}

func TestNext_ClampsLevel(t *testing.T) {
	t.Parallel()

	c := New()
	c.Next(0, FormatArabic)
	if got := c.Next(1, FormatArabic); got != "2." {
		t.Errorf("Next(1) after Next(0) = %q, want %q (level 0 clamps to 1)", got, "2.")
	}
	c.Next(42, FormatArabic)
	if got := c.Next(MaxLevel, FormatArabic); got != "2." {
		t.Errorf("Next(%d) after Next(42) = %q, want %q", MaxLevel, got, "2.")
	}
}

func TestNext_NoneStillCounts(t *testing.T) {
	t.Parallel()

	c := New()
	c.Next(1, FormatArabic)
	c.Next(2, FormatNone)
	if got := c.Next(2, FormatArabic); got != "2." {
		t.Errorf("Next(2) after an unlabeled sibling = %q, want %q", got, "2.")
	}
}

// ---------------------------------------------------------------------------
// TestReset - Manual counter reset
// ---------------------------------------------------------------------------

func TestReset(t *testing.T) {
	t.Parallel()

	t.Run("all levels", func(t *testing.T) {
		t.Parallel()
		c := New()
		c.Next(1, FormatArabic)
		c.Next(2, FormatArabic)
		c.Reset()
		if got := c.Next(1, FormatArabic); got != "1." {
			t.Errorf("Next(1) after Reset() = %q, want %q", got, "1.")
		}
		if got := c.Next(2, FormatArabic); got != "1." {
			t.Errorf("Next(2) after Reset() = %q, want %q", got, "1.")
		}
	})

	t.Run("from level", func(t *testing.T) {
		t.Parallel()
		c := New()
		c.Next(1, FormatArabic)
		c.Next(2, FormatArabic)
		c.Next(2, FormatArabic)
		c.Next(3, FormatArabic)
		c.Reset(2)
		if got := c.Next(2, FormatArabic); got != "1." {
			t.Errorf("Next(2) after Reset(2) = %q, want %q", got, "1.")
		}
		if got := c.Next(3, FormatArabic); got != "1." {
			t.Errorf("Next(3) after Reset(2) = %q, want %q", got, "1.")
		}
		if got := c.Next(1, FormatArabic); got != "2." {
			t.Errorf("Next(1) after Reset(2) = %q, want %q (level 1 kept)", got, "2.")
		}
	})
}

// ---------------------------------------------------------------------------
// TestRender - Every named scheme
// ---------------------------------------------------------------------------

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		n      int
		want   string
	}{
		{FormatChapter, 1, "第一章"},
		{FormatChapter, 21, "第21章"},
		{FormatSection, 12, "第十二节"},
		{FormatChinese, 3, "三、"},
		{FormatChineseParen, 20, "（二十）"},
		{FormatArabic, 7, "7."},
		{FormatArabicParen, 7, "(7)"},
		{FormatArabicBracket, 7, "[7]"},
		{FormatRoman, 4, "IV."},
		{FormatRoman, 21, "21."},
		{FormatRomanLower, 9, "ix."},
		{FormatLetter, 1, "A."},
		{FormatLetter, 26, "Z."},
		{FormatLetter, 27, "27."},
		{FormatLetterLower, 2, "b."},
		{FormatNone, 5, ""},
		{"", 5, ""},
		{"Part {n}: ", 2, "Part 2: "},
		{"第{cn}部分", 3, "第三部分"},
		{"{{{n}}}", 4, "{4}"},
		{"Appendix", 2, "Appendix"},
		{"{x}", 6, "6. "},
		{"{n", 6, "6. "},
		{"n}", 6, "6. "},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.format, tt.n), func(t *testing.T) {
			t.Parallel()
			if got := Render(tt.n, tt.format); got != tt.want {
				t.Errorf("Render(%d, %q) = %q, want %q", tt.n, tt.format, got, tt.want)
			}
		})
	}
}

func TestRender_Circle(t *testing.T) {
	t.Parallel()

	glyphs := []rune("①②③④⑤⑥⑦⑧⑨⑩⑪⑫⑬⑭⑮⑯⑰⑱⑲⑳")
	for n := 1; n <= 20; n++ {
		if got, want := Render(n, FormatCircle), string(glyphs[n-1]); got != want {
			t.Errorf("Render(%d, circle) = %q, want %q", n, got, want)
		}
	}
	for _, n := range []int{21, 99} {
		if got, want := Render(n, FormatCircle), fmt.Sprintf("(%d)", n); got != want {
			t.Errorf("Render(%d, circle) = %q, want %q", n, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestToChinese - Lookup table limits
// ---------------------------------------------------------------------------

func TestToChinese(t *testing.T) {
	t.Parallel()

	tests := map[int]string{0: "零", 1: "一", 10: "十", 15: "十五", 20: "二十", 21: "21", 100: "100", -1: "-1"}
	for n, want := range tests {
		if got := ToChinese(n); got != want {
			t.Errorf("ToChinese(%d) = %q, want %q", n, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestValidateFormat - Flags templates that would fall back
// ---------------------------------------------------------------------------

func TestValidateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  string
		wantErr bool
	}{
		{FormatChapter, false},
		{"", false},
		{"{n}.{n}", false},
		{"{cn}、", false},
		{"{num}", true},
		{"{n", true},
		{"}", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if tt.wantErr && !errors.Is(err, ErrMalformedTemplate) {
			t.Errorf("ValidateFormat(%q) = %v, want ErrMalformedTemplate", tt.format, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("ValidateFormat(%q) = %v, want nil", tt.format, err)
		}
	}
}
