package services

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateMatchPDF renders a matching run as a PDF report using maroto/v2:
// the matched table with unmatched rows highlighted, then the summary counts.
// Returns the raw PDF bytes or an error.
func GenerateMatchPDF(result MatchResult) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addMatchHeader(m)
	addMatchTableHeader(m)
	for _, l := range result.Lines {
		addMatchTableRow(m, l)
	}
	addMatchSummary(m, result)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// addMatchHeader adds the report title and generation date.
func addMatchHeader(m core.Maroto) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New("SOR-BOQ Matching Report", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Generated: %s", time.Now().Format("02 Jan 2006")), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)

	// Spacer
	m.AddRows(row.New(4))
}

// addMatchTableHeader adds the column header row for the matched table.
func addMatchTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(2).Add(
				text.New(ResultColumns[0], headerText),
			).WithStyle(&headerCell),
			col.New(4).Add(
				text.New(ResultColumns[1], headerTextLeft),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New(ResultColumns[2], headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New(ResultColumns[3], headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New(ResultColumns[4], headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New(ResultColumns[5], headerText),
			).WithStyle(&headerCell),
		),
	)
}

// addMatchTableRow adds one matched line, with a light red background for
// unmatched rows so they stand out for manual pricing.
func addMatchTableRow(m core.Maroto, l MatchedLine) {
	var cellStyle *props.Cell
	if l.Method == MatchUnmatched {
		bg := &props.Color{Red: 253, Green: 232, Blue: 232}
		cellStyle = &props.Cell{BackgroundColor: bg}
	}

	baseText := props.Text{
		Size:  7,
		Align: align.Center,
	}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	colCode := col.New(2).Add(text.New(l.Code, baseText))
	colDesc := col.New(4).Add(text.New(l.BoqDescription, leftText))
	colQty := col.New(1).Add(text.New(FormatQty(l.Quantity), rightText))
	colUnit := col.New(1).Add(text.New(l.Unit, baseText))
	colRate := col.New(2).Add(text.New(FormatAmount(l.Rate), rightText))
	colTotal := col.New(2).Add(text.New(FormatAmount(l.TotalAmount), rightText))

	if cellStyle != nil {
		colCode = colCode.WithStyle(cellStyle)
		colDesc = colDesc.WithStyle(cellStyle)
		colQty = colQty.WithStyle(cellStyle)
		colUnit = colUnit.WithStyle(cellStyle)
		colRate = colRate.WithStyle(cellStyle)
		colTotal = colTotal.WithStyle(cellStyle)
	}

	m.AddRows(
		row.New(7).Add(
			colCode,
			colDesc,
			colQty,
			colUnit,
			colRate,
			colTotal,
		),
	)
}

// addMatchSummary adds the grand total and the per-run counts.
func addMatchSummary(m core.Maroto, result MatchResult) {
	// Spacer before summary
	m.AddRows(row.New(6))

	summaryBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := labelStyle

	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(
				text.New("Grand Total", labelStyle),
			).WithStyle(summaryCell),
			col.New(4).Add(
				text.New(FormatINR(result.GrandTotal()), valueStyle),
			).WithStyle(summaryCell),
		),
	)

	counts := []struct {
		label string
		value int
	}{
		{"Total lines", result.Summary.TotalLines},
		{"Exact matched", result.Summary.ExactMatched},
		{"Fuzzy matched", result.Summary.FuzzyMatched},
		{"Unmatched", result.Summary.Unmatched},
		{"Rejected rows", result.RejectedRows},
	}
	for _, c := range counts {
		m.AddRows(
			row.New(7).Add(
				col.New(8).Add(
					text.New(c.label, props.Text{Size: 8, Align: align.Right}),
				),
				col.New(4).Add(
					text.New(fmt.Sprintf("%d", c.value), props.Text{Size: 8, Align: align.Right}),
				),
			),
		)
	}
}
