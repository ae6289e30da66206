package web

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Home renders the live rooms overview with optional match history and standings.
func Home(data HomeData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Arena rooms</title>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">Arena</span>
        <h1>Live rooms</h1>
      </header>
`)
		writeRooms(&b, data.Rooms)
		if data.HasHistory {
			writeMatches(&b, data.Matches)
		}
		if data.HasStandings {
			writeStandings(&b, data.Standings)
		}
		b.WriteString(`    </main>
  </body>
</html>
`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeRooms(b *strings.Builder, rooms []RoomRow) {
	b.WriteString(`      <section class="panel" id="rooms">
`)
	if len(rooms) == 0 {
		b.WriteString(`        <p class="empty">No rooms are open right now.</p>
      </section>
`)
		return
	}
	b.WriteString(`        <table>
          <thead><tr><th>Code</th><th>Mode</th><th>State</th><th>Players</th></tr></thead>
          <tbody>
`)
	for _, room := range rooms {
		b.WriteString(`            <tr><td class="code">`)
		b.WriteString(templ.EscapeString(room.Code))
		b.WriteString(`</td><td>`)
		b.WriteString(templ.EscapeString(room.Mode))
		b.WriteString(`</td><td>`)
		b.WriteString(templ.EscapeString(room.State))
		b.WriteString(`</td><td>`)
		b.WriteString(itoa(room.Players) + " / " + itoa(room.MaxPlayers))
		b.WriteString("</td></tr>\n")
	}
	b.WriteString(`          </tbody>
        </table>
      </section>
`)
}

func writeMatches(b *strings.Builder, matches []MatchRow) {
	b.WriteString(`      <section class="panel" id="matches">
        <h2>Recent matches</h2>
`)
	if len(matches) == 0 {
		b.WriteString(`        <p class="empty">No matches finished yet.</p>
      </section>
`)
		return
	}
	b.WriteString(`        <ul>
`)
	for _, match := range matches {
		b.WriteString(`          <li>`)
		b.WriteString(templ.EscapeString(match.RoomCode))
		b.WriteString(` (`)
		b.WriteString(templ.EscapeString(match.Mode))
		b.WriteString(`, `)
		b.WriteString(itoa(match.Players))
		b.WriteString(` players) won by <strong>`)
		b.WriteString(templ.EscapeString(match.Winner))
		b.WriteString(`</strong> at `)
		b.WriteString(formatTime(match.FinishedAt))
		b.WriteString("</li>\n")
	}
	b.WriteString(`        </ul>
      </section>
`)
}

func writeStandings(b *strings.Builder, standings []StandingRow) {
	b.WriteString(`      <section class="panel" id="leaderboard">
        <h2>Leaderboard</h2>
        <ol>
`)
	for _, standing := range standings {
		b.WriteString(`          <li>`)
		b.WriteString(templ.EscapeString(standing.Name))
		b.WriteString(` <span class="score">`)
		b.WriteString(formatScore(standing.Score))
		b.WriteString("</span></li>\n")
	}
	b.WriteString(`        </ol>
      </section>
`)
}
