package gradesheet

import (
	"regexp"
	"strings"

	"resultrelay/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Subject is one row of the upstream marks table. Every field is kept
// verbatim as scraped (trimmed); only Name has internal whitespace
// runs collapsed.
type Subject struct {
	Name        string `json:"subjectName"`
	CreditHours string `json:"creditHours"`
	Grade       string `json:"grade"`
	GradePoint  string `json:"gradePoint"`
	FinalGrade  string `json:"finalGrade"`
	Remarks     string `json:"remarks"`
}

type Result struct {
	Symbol      string    `json:"symbol"`
	DateOfBirth string    `json:"dateOfBirth"`
	GPA         *string   `json:"gpa"`
	Subjects    []Subject `json:"subjects"`
}

const subjectCellCount = 6

// identity block on the upstream gradesheet page, restates the
// queried symbol number and date of birth
const infoBlockSelector = ".info"

var (
	gpaLabelRegex = regexp.MustCompile(`(?i)GRADE\s*POINT\s*AVERAGE`)
	gpaStripRegex = regexp.MustCompile(`(?i)^\s*GRADE\s*POINT\s*AVERAGE\s*\(\s*GPA\s*\)\s*:?\s*`)

	symbolRegex = regexp.MustCompile(`\b\d{8}[A-Z]?\b`)
	// the greedy .* is intentional: it reproduces how the page has
	// always been read, even though it skips to the last date on
	// pathological input
	dobRegex = regexp.MustCompile(`(?i)DATE\s*OF\s*BIRTH.*(\d{4}[-./]\d{2}[-./]\d{2})`)
)

// Extract mines a gradesheet page for the GPA, the marks table and the
// restated identity fields. It never fails: unparseable or unexpected
// markup degrades to a nil GPA, no subjects and the submitted identity.
func Extract(html string, submittedSymbol, submittedDob string) Result {
	result := Result{
		Symbol:      submittedSymbol,
		DateOfBirth: submittedDob,
		Subjects:    []Subject{},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return result
	}

	gpaFound := false
	doc.Find("b, strong").Each(func(_ int, sel *goquery.Selection) {
		if gpaFound {
			return
		}
		text := sel.Text()
		if !gpaLabelRegex.MatchString(text) {
			return
		}
		gpa := strings.TrimSpace(gpaStripRegex.ReplaceAllString(strings.TrimSpace(text), ""))
		result.GPA = &gpa
		gpaFound = true
	})

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() != subjectCellCount {
			return
		}
		fields := make([]string, subjectCellCount)
		cells.Each(func(i int, cell *goquery.Selection) {
			fields[i] = strings.TrimSpace(cell.Text())
		})
		result.Subjects = append(result.Subjects, Subject{
			Name:        htmlutil.CollapseSpace(fields[0]),
			CreditHours: fields[1],
			Grade:       fields[2],
			GradePoint:  fields[3],
			FinalGrade:  fields[4],
			Remarks:     fields[5],
		})
	})

	info := doc.Find(infoBlockSelector).Text()
	if symbol := symbolRegex.FindString(info); symbol != "" {
		result.Symbol = symbol
	}
	if groups := dobRegex.FindStringSubmatch(info); len(groups) > 1 {
		result.DateOfBirth = groups[1]
	}

	return result
}
