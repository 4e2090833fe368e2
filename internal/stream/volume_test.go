package stream

import (
	"net/url"
	"testing"
)

func TestTrimesterMonths(t *testing.T) {
	cases := []struct{ trimester, lo, hi int }{
		{1, 1, 3},
		{2, 4, 6},
		{3, 7, 9},
		{4, 10, 12},
	}
	for _, c := range cases {
		lo, hi := trimesterMonths(c.trimester)
		if lo != c.lo || hi != c.hi {
			t.Errorf("trimesterMonths(%d) = (%d, %d), want (%d, %d)", c.trimester, lo, hi, c.lo, c.hi)
		}
	}
}

func TestParseDateFilter_Valid(t *testing.T) {
	q := url.Values{}
	q.Set("year", "2022")
	q.Set("month", "7")
	q.Set("trimester", "3")
	q.Set("semester", "2")
	q.Set("date_from", "2022-01-01")
	q.Set("date_to", "2022-12-31")

	f, err := parseDateFilter(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.year == nil || *f.year != 2022 {
		t.Errorf("year: got %v", f.year)
	}
	if f.month == nil || *f.month != 7 {
		t.Errorf("month: got %v", f.month)
	}
	if f.trimester == nil || *f.trimester != 3 {
		t.Errorf("trimester: got %v", f.trimester)
	}
	if f.semester == nil || *f.semester != 2 {
		t.Errorf("semester: got %v", f.semester)
	}
	if f.from == nil || f.from.String() != "2022-01-01" {
		t.Errorf("date_from: got %v", f.from)
	}
	if f.to == nil || f.to.String() != "2022-12-31" {
		t.Errorf("date_to: got %v", f.to)
	}
}

func TestParseDateFilter_Empty(t *testing.T) {
	f, err := parseDateFilter(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.year != nil || f.month != nil || f.trimester != nil || f.semester != nil || f.from != nil || f.to != nil {
		t.Errorf("expected empty filter, got %+v", f)
	}
}

func TestParseDateFilter_Rejects(t *testing.T) {
	cases := []struct{ key, value string }{
		{"year", "abc"},
		{"year", "0"},
		{"year", "10000"},
		{"month", "0"},
		{"month", "13"},
		{"month", "july"},
		{"trimester", "5"},
		{"trimester", "0"},
		{"semester", "3"},
		{"semester", "0"},
		{"date_from", "01/01/2022"},
		{"date_to", "2022-13-40"},
	}

	for _, c := range cases {
		q := url.Values{}
		q.Set(c.key, c.value)
		if _, err := parseDateFilter(q); err == nil {
			t.Errorf("expected error for %s=%s", c.key, c.value)
		}
	}
}
