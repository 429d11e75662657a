// Package demo holds the bundled sample documents and the contradictions
// found in them. The demo detector and the demo command use these so the
// tool can be tried without a configured language model.
package demo

import (
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/contextguard/internal/core/domain"
)

// Titles of the bundled documents.
const (
	TripTitle    = "Science_Museum_Trip.txt"
	TeacherTitle = "Teacher_Trip_Update.txt"
	CampTitle    = "Summer_Camp_Guide.txt"
	LibraryTitle = "City_Library_Guide.txt"

	// LegacyTripTitle is the trip title some older sample sets used.
	LegacyTripTitle = "DemoScienceMuseumTrip.txt"
)

// Scenario is one step of the guided demo.
type Scenario struct {
	// Name is the identifier used on the command line.
	Name string

	// Title is the heading shown before the results.
	Title string

	// Description introduces the documents.
	Description string

	// Documents are the documents checked in this scenario.
	Documents []domain.Document

	// Expected are the issues the demo detector reports for Documents.
	Expected []domain.Issue
}

// Scenarios returns the guided demo in presentation order.
// Every call returns fresh documents with new IDs.
func Scenarios() []Scenario {
	return []Scenario{
		{
			Name:        "two-docs",
			Title:       "Multi-Document Check",
			Description: "Two notices about the same school trip. Let's see if they agree:",
			Documents:   []domain.Document{TripDocument(), TeacherDocument()},
			Expected:    TwoDocIssues(),
		},
		{
			Name:        "single-doc",
			Title:       "Single-Document Check",
			Description: "Contradictions can hide inside one document too. Here's a summer camp guide:",
			Documents:   []domain.Document{CampDocument()},
			Expected:    SingleDocIssues(),
		},
		{
			Name:        "library",
			Title:       "Clean Document",
			Description: "Not every document has contradictions. Here's a well-written library guide:",
			Documents:   []domain.Document{LibraryDocument()},
			Expected:    []domain.Issue{},
		},
	}
}

// FindScenario returns the scenario with the given name.
func FindScenario(name string) (Scenario, bool) {
	for _, s := range Scenarios() {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

func newDocument(title, content string) domain.Document {
	return domain.Document{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Metadata:  map[string]any{"source": "demo"},
		CreatedAt: time.Now(),
	}
}

// TripDocument is the parents' letter about the science museum trip.
func TripDocument() domain.Document {
	return newDocument(TripTitle, tripContent)
}

// TeacherDocument is the teacher's conflicting trip update.
func TeacherDocument() domain.Document {
	return newDocument(TeacherTitle, teacherContent)
}

// CampDocument is the camp guide that contradicts itself.
func CampDocument() domain.Document {
	return newDocument(CampTitle, campContent)
}

// LibraryDocument is the consistent library guide.
func LibraryDocument() domain.Document {
	return newDocument(LibraryTitle, libraryContent)
}

// TwoDocIssues returns the contradictions between the trip letter and the teacher update.
func TwoDocIssues() []domain.Issue {
	return []domain.Issue{
		{
			Severity:        domain.SeverityHigh,
			Rationale:       "The trip destination is completely different across the two documents.",
			SourceText:      "trip to the Science Museum in the city center",
			SourceDocument:  TripTitle,
			TargetText:      "trip to the Water Park at the beach",
			TargetDocument:  TeacherTitle,
			SuggestedFix:    "Confirm the actual destination — Science Museum or Water Park — and update both documents.",
			SourceParagraph: 3,
			TargetParagraph: 3,
		},
		{
			Severity:        domain.SeverityMedium,
			Rationale:       "The trip date and departure time are contradictory.",
			SourceText:      "Monday, June 1st at 8:00 AM",
			SourceDocument:  TripTitle,
			TargetText:      "Wednesday, June 3rd at 10:00 AM",
			TargetDocument:  TeacherTitle,
			SuggestedFix:    "Align the trip date — parents need one consistent date and time.",
			SourceParagraph: 4,
			TargetParagraph: 4,
		},
		{
			Severity:        domain.SeverityMedium,
			Rationale:       "The food instructions directly contradict each other.",
			SourceText:      "bring a packed lunch from home. The museum cafe is currently closed",
			SourceDocument:  TripTitle,
			TargetText:      "You do not need to bring food. We will all eat lunch together",
			TargetDocument:  TeacherTitle,
			SuggestedFix:    "Clarify whether students should pack lunch or if food is provided.",
			SourceParagraph: 8,
			TargetParagraph: 8,
		},
		{
			Severity:        domain.SeverityMedium,
			Rationale:       "The dress code contradicts across documents.",
			SourceText:      "Students must wear their blue school uniform",
			SourceDocument:  TripTitle,
			TargetText:      "Do not wear your school uniform because it will get wet",
			TargetDocument:  TeacherTitle,
			SuggestedFix:    "Specify one dress code — school uniform or swimming clothes.",
			SourceParagraph: 9,
			TargetParagraph: 12,
		},
	}
}

// SingleDocIssues returns the internal contradictions of the camp guide.
func SingleDocIssues() []domain.Issue {
	return []domain.Issue{
		{
			Severity:        domain.SeverityHigh,
			Rationale:       "The snack policy directly contradicts the camp shop description.",
			SourceText:      "No candy, soda, or sugary snacks are allowed in the camp building",
			SourceDocument:  CampTitle,
			TargetText:      "bring $5 every day so you can buy candy and soda",
			TargetDocument:  CampTitle,
			SuggestedFix:    "Decide whether candy and soda are banned or sold — remove one of the conflicting statements.",
			SourceParagraph: 12,
			TargetParagraph: 15,
		},
		{
			Severity:        domain.SeverityHigh,
			Rationale:       "The hat policy contradicts itself within the same document.",
			SourceText:      "You must always wear a sun hat when you are outside",
			SourceDocument:  CampTitle,
			TargetText:      "Hats are not allowed at camp",
			TargetDocument:  CampTitle,
			SuggestedFix:    "Clarify whether hats are required outside or banned entirely.",
			SourceParagraph: 11,
			TargetParagraph: 16,
		},
		{
			Severity:        domain.SeverityHigh,
			Rationale:       "The grading section says there are no tests, but then describes a final exam.",
			SourceText:      "There are no tests at this camp",
			SourceDocument:  CampTitle,
			TargetText:      "The final exam is on Friday afternoon",
			TargetDocument:  CampTitle,
			SuggestedFix:    "Remove either the 'no tests' claim or the final exam details.",
			SourceParagraph: 19,
			TargetParagraph: 21,
		},
	}
}
