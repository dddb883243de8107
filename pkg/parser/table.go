package parser

import "github.com/yaklabco/mdpreview/pkg/mdast"

// tableStart reports whether lines[i] is a table header: a row with a pipe,
// followed by a separator row with the same number of cells.
func (p *blockParser) tableStart(lines []line, i int) bool {
	if i+1 >= len(lines) {
		return false
	}
	header := lines[i]
	if cols, _ := p.indent(header); cols > maxIndent || !p.hasPipe(header) {
		return false
	}
	aligns, ok := p.separator(lines[i+1])
	if !ok {
		return false
	}
	return len(p.cells(header)) == len(aligns)
}

// separator parses a delimiter row such as "| :-- | --: |".
func (p *blockParser) separator(l line) ([]mdast.Alignment, bool) {
	if cols, _ := p.indent(l); cols > maxIndent {
		return nil, false
	}

	cells := p.cells(l)
	if len(cells) == 0 || (len(cells) == 1 && !p.hasPipe(l)) {
		return nil, false
	}

	aligns := make([]mdast.Alignment, 0, len(cells))
	for _, cell := range cells {
		text := p.src[cell.start:cell.end]
		if len(text) == 0 {
			return nil, false
		}

		left := text[0] == ':'
		right := text[len(text)-1] == ':'
		dashes := text
		if left {
			dashes = dashes[1:]
		}
		if right && len(dashes) > 0 {
			dashes = dashes[:len(dashes)-1]
		}
		if len(dashes) == 0 || runLength(dashes, '-') != len(dashes) {
			return nil, false
		}

		switch {
		case left && right:
			aligns = append(aligns, mdast.AlignCenter)
		case left:
			aligns = append(aligns, mdast.AlignLeft)
		case right:
			aligns = append(aligns, mdast.AlignRight)
		default:
			aligns = append(aligns, mdast.AlignNone)
		}
	}
	return aligns, true
}

// hasPipe reports whether l contains an unescaped '|'.
func (p *blockParser) hasPipe(l line) bool {
	for k := l.start; k < l.end; k++ {
		switch p.src[k] {
		case '\\':
			k++
		case '|':
			return true
		}
	}
	return false
}

// cells splits a table row on unescaped pipes. Leading and trailing pipes
// are optional; each returned cell is trimmed.
func (p *blockParser) cells(l line) []line {
	row := p.trimmed(l)
	if row.start == row.end {
		return nil
	}
	if p.src[row.start] == '|' {
		row.start++
	}
	if row.end > row.start && p.src[row.end-1] == '|' && !escaped(p.src, row.start, row.end-1) {
		row.end--
	}

	var cells []line
	cellStart := row.start
	for k := row.start; k < row.end; k++ {
		switch p.src[k] {
		case '\\':
			k++
		case '|':
			cells = append(cells, p.trimmedCell(cellStart, k))
			cellStart = k + 1
		}
	}
	return append(cells, p.trimmedCell(cellStart, row.end))
}

// trimmedCell trims a cell; an empty cell becomes an empty line at the
// position after its opening pipe.
func (p *blockParser) trimmedCell(start, end int) line {
	cell := p.trimmed(line{start: start, end: end})
	if cell.start == cell.end {
		return line{start: start, end: start}
	}
	return cell
}

// escaped reports whether src[pos] is preceded by an odd number of
// backslashes within [from, pos).
func escaped(src []byte, from, pos int) bool {
	n := 0
	for k := pos - 1; k >= from && src[k] == '\\'; k-- {
		n++
	}
	return n%2 == 1
}

// parseTable consumes a header row, the separator row and the body rows that
// follow until a blank line or another block start.
func (p *blockParser) parseTable(parent *mdast.Node, lines []line, i int) int {
	aligns, _ := p.separator(lines[i+1])

	table := mdast.NewNode(mdast.NodeTable)
	table.Block = mdast.NewBlockAttrs().WithTable(&mdast.TableAttrs{
		Alignments: aligns,
		Delimiter:  spanOf(p.trimmed(lines[i+1])),
	})

	p.appendRow(table, lines[i], aligns, true)

	j := i + 2
	for j < len(lines) && !p.blank(lines[j]) && !p.interrupts(lines, j, true) {
		p.appendRow(table, lines[j], aligns, false)
		j++
	}

	table.Span = mdast.NewSpan(table.FirstChild.Span.Start, table.LastChild.Span.End)
	mdast.AppendChild(parent, table)
	return j
}

// appendRow adds one row. Cells beyond the column count are dropped; missing
// cells are left for the renderer to pad.
func (p *blockParser) appendRow(table *mdast.Node, l line, aligns []mdast.Alignment, header bool) {
	row := mdast.NewNodeAt(mdast.NodeTableRow, spanOf(p.trimmed(l)))
	row.Block = mdast.NewBlockAttrs().WithTable(&mdast.TableAttrs{Header: header})

	for k, cell := range p.cells(l) {
		if k >= len(aligns) {
			break
		}
		node := mdast.NewNodeAt(mdast.NodeTableCell, spanOf(cell))
		node.Block = mdast.NewBlockAttrs().WithTable(&mdast.TableAttrs{Align: aligns[k]})
		if cell.end > cell.start {
			parseInlines(p.src, node, []line{cell})
		}
		mdast.AppendChild(row, node)
	}

	mdast.AppendChild(table, row)
}

func spanOf(l line) mdast.Span {
	return mdast.NewSpan(l.start, l.end)
}
