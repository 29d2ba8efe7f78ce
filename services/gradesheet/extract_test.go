package gradesheet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<body>
<div class="info">
  <p>Symbol No.: 12345678B</p>
  <p>Date of Birth : 2006.03.12</p>
</div>
<b>GRADE POINT AVERAGE (GPA) :   3.45</b>
<table>
  <tr><th>Subject</th><th>CH</th><th>GR</th><th>GP</th><th>FG</th><th>RM</th></tr>
  <tr><td>COMP.  ENGLISH</td><td>4</td><td>B+</td><td>3.2</td><td> B+ </td><td></td></tr>
  <tr><td>COMP. NEPALI</td><td>4</td><td>A</td><td>3.6</td><td>A</td><td></td></tr>
  <tr><td>footer</td><td>spans</td><td>five</td><td>cells</td><td>only</td></tr>
</table>
</body>
</html>`

func TestExtractSamplePage(t *testing.T) {
	result := Extract(samplePage, "00000000", "1999-01-01")

	require.NotNil(t, result.GPA)
	require.Equal(t, "3.45", *result.GPA)

	require.Len(t, result.Subjects, 2)
	require.Equal(t, Subject{
		Name:        "COMP. ENGLISH",
		CreditHours: "4",
		Grade:       "B+",
		GradePoint:  "3.2",
		FinalGrade:  "B+",
		Remarks:     "",
	}, result.Subjects[0])
	require.Equal(t, "COMP. NEPALI", result.Subjects[1].Name)

	require.Equal(t, "12345678B", result.Symbol)
	require.Equal(t, "2006.03.12", result.DateOfBirth)
}

func TestExtractGPA(t *testing.T) {
	testCases := []struct {
		name     string
		html     string
		expected *string
	}{
		{
			name:     "no bold label",
			html:     `<html><body><p>GRADE POINT AVERAGE (GPA): 3.0</p></body></html>`,
			expected: nil,
		},
		{
			name:     "irregular spacing around colon",
			html:     `<b>GRADE POINT AVERAGE (GPA)   :3.95</b>`,
			expected: strptr("3.95"),
		},
		{
			name:     "strong tag",
			html:     `<strong>GRADE POINT AVERAGE (GPA): 2.80</strong>`,
			expected: strptr("2.80"),
		},
		{
			name:     "first match wins",
			html:     `<b>GRADE POINT AVERAGE (GPA): 3.10</b><b>GRADE POINT AVERAGE (GPA): 1.00</b>`,
			expected: strptr("3.10"),
		},
		{
			name:     "label without value",
			html:     `<b>GRADE POINT AVERAGE (GPA):</b>`,
			expected: strptr(""),
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			result := Extract(test.html, "12345678", "2000-01-01")
			if test.expected == nil {
				require.Nil(t, result.GPA)
				return
			}
			require.NotNil(t, result.GPA)
			require.Equal(t, *test.expected, *result.GPA)
		})
	}
}

func TestExtractSubjectRowShapes(t *testing.T) {
	html := `<table>
	<tr><td>1</td><td>2</td><td>3</td><td>4</td><td>5</td><td>6</td></tr>
	<tr><td>too</td><td>few</td></tr>
	<tr><td>a</td><td>b</td><td>c</td><td>d</td><td>e</td><td>f</td><td>g</td></tr>
	<tr><td>x</td><td>2</td><td>3</td><td>4</td><td>5</td><td>6</td></tr>
	</table>`

	result := Extract(html, "12345678", "2000-01-01")
	require.Len(t, result.Subjects, 2)
	require.Equal(t, "1", result.Subjects[0].Name)
	require.Equal(t, "x", result.Subjects[1].Name)
}

func TestExtractSubjectWhitespace(t *testing.T) {
	html := `<table><tr>
	<td>  OPT.   I	MATHEMATICS  </td>
	<td> 100 </td>
	<td>A  +</td>
	<td>4.0</td>
	<td>A+</td>
	<td>  PASSED  WITH  DISTINCTION  </td>
	</tr></table>`

	result := Extract(html, "12345678", "2000-01-01")
	require.Len(t, result.Subjects, 1)

	s := result.Subjects[0]
	require.Equal(t, "OPT. I MATHEMATICS", s.Name)
	// every other field is trimmed but keeps its internal whitespace
	require.Equal(t, "100", s.CreditHours)
	require.Equal(t, "A  +", s.Grade)
	require.Equal(t, "PASSED  WITH  DISTINCTION", s.Remarks)
}

func TestExtractEmptyDocument(t *testing.T) {
	result := Extract("", "12345678A", "2000-01-01")
	require.Nil(t, result.GPA)
	require.Empty(t, result.Subjects)
	require.Equal(t, "12345678A", result.Symbol)
	require.Equal(t, "2000-01-01", result.DateOfBirth)
}

func TestExtractIdentityFallback(t *testing.T) {
	// no info block at all
	result := Extract(`<html><body><p>nothing here</p></body></html>`, "12345678A", "2000-01-01")
	require.Equal(t, "12345678A", result.Symbol)
	require.Equal(t, "2000-01-01", result.DateOfBirth)

	// info block present but with unusable contents
	result = Extract(`<div class="info">Symbol No.: 1234 Date of Birth: unknown</div>`, "87654321", "2001/02/03")
	require.Equal(t, "87654321", result.Symbol)
	require.Equal(t, "2001/02/03", result.DateOfBirth)
}

func TestExtractIdentityGreedyDate(t *testing.T) {
	// the date pattern is greedy on purpose, it reads the last date
	// after the label rather than the nearest one
	html := `<div class="info">Date of Birth: 2006-03-12 printed 2024-06-01</div>`
	result := Extract(html, "12345678", "2000-01-01")
	require.Equal(t, "2024-06-01", result.DateOfBirth)
}

func TestExtractSymbolWithLetter(t *testing.T) {
	html := `<div class="info">Symbol: 12345678A</div>`
	result := Extract(html, "00000000", "2000-01-01")
	require.Equal(t, "12345678A", result.Symbol)
}

func strptr(s string) *string {
	return &s
}
