// Package render formats player records for delivery through the chat transport:
// a MarkdownV2 text block, a pretty-printed JSON dump and a CSV comparison.
package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/woozymasta/wzbot/internal/stats"
)

// File names and content types of file renderings.
const (
	RawFileName        = "userData.json"
	RawContentType     = "text/json"
	CompareFileName    = "userCompare.csv"
	CompareContentType = "text/csv"
)

const rule = "---"

// Plain renders rec as the human readable report, without any markup.
func Plain(rec *stats.Record) string {
	var b strings.Builder

	section := func(title string) {
		b.WriteString(rule + "\n" + title + "\n" + rule + "\n")
	}
	line := func(key, value string) {
		b.WriteString(stats.Label(key) + ": " + value + "\n")
	}

	section("ALL")
	line("username", rec.Username)
	for _, f := range rec.All {
		line(f.Key, f.Value)
	}

	section("Last week")
	for _, f := range rec.Weekly {
		line(f.Key, f.Value)
	}

	return b.String()
}

// Text renders rec as a fenced MarkdownV2 block ready to be sent with that parse mode.
func Text(rec *stats.Record) string {
	return "```\n" + EscapeMarkdown(Plain(rec)) + "```\n"
}

// EscapeMarkdown escapes s for MarkdownV2, backslashes included.
func EscapeMarkdown(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, strings.ReplaceAll(s, `\`, `\\`))
}

// Raw pretty-prints the provider document with a 2-space indent.
// The document itself is not altered: parsing the result yields the same value.
func Raw(doc []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", "  "); err != nil {
		return "", fmt.Errorf("render: indent profile: %w", err)
	}

	return buf.String(), nil
}

// Compare renders one column per player: a header of names, then one row per
// lifetime field (ALL:<label>) and one per weekly field (LastWeek:<label>).
// names and records must be of equal length and in the same order.
func Compare(names []string, records []*stats.Record) (string, error) {
	if len(names) != len(records) {
		return "", fmt.Errorf("render: %d names for %d records", len(names), len(records))
	}
	if len(records) == 0 {
		return "", errors.New("render: nothing to compare")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{""}, names...)
	if err := w.Write(header); err != nil {
		return "", err
	}

	rows := func(section stats.Section, specs []stats.FieldSpec, pick func(*stats.Record) []stats.Field) error {
		for i, spec := range specs {
			row := make([]string, 0, len(records)+1)
			row = append(row, string(section)+":"+stats.Label(spec.Key))
			for n, rec := range records {
				fields := pick(rec)
				if i >= len(fields) || fields[i].Key != spec.Key {
					return fmt.Errorf("render: record of %s has no %s field %s", names[n], section, spec.Key)
				}
				row = append(row, fields[i].Value)
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	}

	if err := rows(stats.SectionAll, stats.AllFields, func(r *stats.Record) []stats.Field { return r.All }); err != nil {
		return "", err
	}
	if err := rows(stats.SectionWeekly, stats.WeeklyFields, func(r *stats.Record) []stats.Field { return r.Weekly }); err != nil {
		return "", err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return buf.String(), nil
}
