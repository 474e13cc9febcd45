// Package report renders engine statistics as the plain-text report printed by the CLI.
package report

import (
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vovakirdan/groupstats/internal/core"
	"github.com/vovakirdan/groupstats/internal/stats"
)

const noData = "no data"

// Options tune the report output.
type Options struct {
	TopMessages int
	Location    *time.Location
	Language    language.Tag
}

// DefaultOptions matches the classic report: top 25 messages, local dates, English number grouping.
func DefaultOptions() Options {
	return Options{
		TopMessages: 25,
		Location:    time.Local,
		Language:    language.English,
	}
}

// printer keeps the first write error so sections can be written without checking every line.
type printer struct {
	p   *message.Printer
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = p.p.Fprintf(p.w, format, args...)
}

// Write prints every report section for e to w.
func Write(w io.Writer, e *stats.Engine, opts Options) error {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Language == language.Und {
		opts.Language = language.English
	}
	p := &printer{p: message.NewPrinter(opts.Language), w: w}
	nicknames := nicknameIndex(e.Members())

	p.printf("Last %d Messages\n\n", e.TotalMessages())
	writeMessageStats(p, e)
	p.printf("\n")
	writeTopMessages(p, e, opts, nicknames)
	p.printf("\n")
	writeLikesGiven(p, e)
	p.printf("\n")
	writeSelfLikes(p, e)
	p.printf("\n")
	writeAffinity(p, e, nicknames)
	return p.err
}

func writeMessageStats(p *printer, e *stats.Engine) {
	for _, m := range e.Members() {
		count := e.MessageCount(m.UserID)
		likes := e.LikesReceived(m.UserID)
		ratio, err := e.LikeRatio(m.UserID)
		if err != nil {
			p.printf("Member: %s: %d messages and %d likes for a ratio of %s\n", m.Nickname, count, likes, noData)
			continue
		}
		p.printf("Member: %s: %d messages and %d likes for a ratio of %.2f likes per message\n", m.Nickname, count, likes, ratio)
	}
}

func writeTopMessages(p *printer, e *stats.Engine, opts Options, nicknames map[string]string) {
	p.printf("Top %d Messages\n", opts.TopMessages)
	for i, msg := range e.TopNByLikes(opts.TopMessages) {
		name := msg.Name
		if name == "" {
			name = nicknames[msg.UserID]
		}
		p.printf("%d) %s(%s) (%d likes): %s\n", i+1, name, formatDate(msg, opts.Location), msg.Likes(), singleLine(msg.Text))
	}
}

func writeLikesGiven(p *printer, e *stats.Engine) {
	p.printf("Total Likes Given\n")
	for _, m := range e.Members() {
		p.printf("%s: %d\n", m.Nickname, e.LikesGiven(m.UserID))
	}
}

func writeSelfLikes(p *printer, e *stats.Engine) {
	p.printf("Self Likes Given\n")
	for _, m := range e.Members() {
		if n := e.SelfLikes(m.UserID); n > 0 {
			p.printf("%s: %d\n", m.Nickname, n)
		}
	}
}

func writeAffinity(p *printer, e *stats.Engine, nicknames map[string]string) {
	p.printf("Like Affinity\n")
	for _, m := range e.Members() {
		for _, a := range e.AffinitiesOf(m.UserID) {
			p.printf("%s likes %s: %.2f%% (%d likes)\n", m.Nickname, nicknames[a.Author], a.Percent, a.Likes)
		}
		total, err := e.TotalAffinity(m.UserID)
		if err != nil {
			p.printf("%s total: n/a\n", m.Nickname)
			continue
		}
		p.printf("%s total: %.2f%% of everyone else's messages\n", m.Nickname, total)
	}
}

// nicknameIndex maps user ids to nicknames; the first roster entry wins.
func nicknameIndex(members []core.Member) map[string]string {
	idx := make(map[string]string, len(members))
	for _, m := range members {
		if _, ok := idx[m.UserID]; !ok {
			idx[m.UserID] = m.Nickname
		}
	}
	return idx
}

// formatDate renders M-D-YYYY.
func formatDate(msg core.Message, loc *time.Location) string {
	return msg.Time().In(loc).Format("1-2-2006")
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
