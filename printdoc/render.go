// Package printdoc turns a finalized itinerary snapshot into a printable PDF.
// Rendering is read-only: the snapshot is never mutated and there is no
// write-back path.
package printdoc

import (
	"bytes"
	"errors"
	"fmt"

	"tripdesk/models"

	"github.com/phpdave11/gofpdf"
)

// ErrMissingDays is returned when the snapshot has no day sequence at all.
// Every optional field is absent-safe; the day list is structurally required.
var ErrMissingDays = errors.New("itinerary days missing")

// Doc is the flat section layout drawn into the PDF. Building it separately
// keeps the content decisions testable without parsing PDF output.
type Doc struct {
	Title       string
	Description string
	Country     string
	Duration    string
	Highlights  []string
	Days        []DaySection
}

type DaySection struct {
	Label  string
	Events []EventBlock
	Meals  []string
}

type EventBlock struct {
	Title       string
	Description string
	Time        string
	Location    string
}

// BuildDoc flattens an itinerary into renderable sections.
func BuildDoc(it models.Itinerary) (Doc, error) {
	if it.Days == nil {
		return Doc{}, ErrMissingDays
	}

	doc := Doc{
		Title:       it.Title,
		Description: it.Description,
		Country:     it.Country,
		Duration:    fmt.Sprintf("%d Days • %d Nights", it.DayCount, it.NightCount),
		Highlights:  it.Highlights,
	}

	for i, day := range it.Days {
		section := DaySection{Label: fmt.Sprintf("Day %d", i+1)}
		for _, ev := range day.Events {
			section.Events = append(section.Events, EventBlock{
				Title:       ev.Title,
				Description: ev.Description,
				Time:        ev.Time,
				Location:    ev.Location,
			})
		}
		if day.Meals != nil {
			if day.Meals.Breakfast {
				section.Meals = append(section.Meals, "Breakfast included")
			}
			if day.Meals.Lunch {
				section.Meals = append(section.Meals, "Lunch included")
			}
			if day.Meals.Dinner {
				section.Meals = append(section.Meals, "Dinner included")
			}
		}
		doc.Days = append(doc.Days, section)
	}

	return doc, nil
}

// Render draws the itinerary into an A4 PDF. qrPNG, when non-nil, is placed
// in the header's top-right corner. Page breaks are left to gofpdf's
// auto-break; the layout emits no manual breaks.
func Render(it models.Itinerary, qrPNG []byte) ([]byte, error) {
	doc, err := BuildDoc(it)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// core fonts are cp1252; translate so "•" and accented text survive
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if qrPNG != nil {
		imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", imgOpts, bytes.NewReader(qrPNG))
		pdf.ImageOptions("qr", 165, 15, 30, 30, false, imgOpts, 0, "")
	}

	// Header
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, tr(doc.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	if doc.Description != "" {
		pdf.MultiCell(0, 6, tr(doc.Description), "", "L", false)
	}
	if doc.Country != "" {
		pdf.CellFormat(0, 6, tr(doc.Country), "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, tr(doc.Duration), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// Highlights as inline tags; the whole block is skipped when empty.
	if len(doc.Highlights) > 0 {
		pdf.SetFont("Arial", "", 9)
		pdf.SetFillColor(230, 238, 250)
		left, _, right, _ := pdf.GetMargins()
		pageWidth, _ := pdf.GetPageSize()
		limit := pageWidth - right
		x := left
		for _, tag := range doc.Highlights {
			w := pdf.GetStringWidth(tr(tag)) + 6
			if x+w > limit {
				pdf.Ln(8)
				x = left
			}
			pdf.CellFormat(w, 6, tr(tag), "", 0, "C", true, 0, "")
			pdf.CellFormat(2, 6, "", "", 0, "", false, 0, "")
			x += w + 2
		}
		pdf.Ln(10)
	}

	// Day sections
	for _, day := range doc.Days {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(day.Label), "B", 1, "L", false, 0, "")
		pdf.Ln(1)

		for _, ev := range day.Events {
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(0, 7, tr(ev.Title), "", 1, "L", false, 0, "")
			if ev.Time != "" || ev.Location != "" {
				pdf.SetFont("Arial", "I", 9)
				pdf.CellFormat(0, 5, tr(metaLine(ev.Time, ev.Location)), "", 1, "L", false, 0, "")
			}
			if ev.Description != "" {
				pdf.SetFont("Arial", "", 10)
				pdf.MultiCell(0, 5, tr(ev.Description), "", "L", false)
			}
			pdf.Ln(2)
		}

		if len(day.Meals) > 0 {
			pdf.SetFont("Arial", "I", 10)
			for _, meal := range day.Meals {
				pdf.CellFormat(0, 5, tr(meal), "", 1, "L", false, 0, "")
			}
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func metaLine(timeStr, location string) string {
	switch {
	case timeStr != "" && location != "":
		return timeStr + " - " + location
	case timeStr != "":
		return timeStr
	default:
		return location
	}
}
