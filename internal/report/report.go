// Package report renders tables for terminal output.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/cluster"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintGameHeader prints a one-line summary for a stored game.
func PrintGameHeader(w io.Writer, s model.GameSummary) {
	fmt.Fprintf(w, "\nGame: %s  |  Date: %s  |  %s %d – %d %s\n\n",
		s.ID, s.Date, s.Home, s.HomeScore, s.AwayScore, s.Away)
}

// PrintGameTable prints both teams' per-game metric rows.
func PrintGameTable(w io.Writer, metrics []model.TeamGameMetrics) {
	table := newTable(w)
	table.Header(
		"TEAM", "G", "GA", "SOG", "CF%", "XG", "XGA", "HD", "HDA",
		"RUSH", "CYCLE", "REB", "FO%", "FCHK", "TK", "GVA_O/N/D", "ENT_C/P/D",
	)
	for _, m := range metrics {
		table.Append(
			m.Abbrev,
			strconv.Itoa(m.GoalsFor),
			strconv.Itoa(m.GoalsAgainst),
			strconv.Itoa(m.ShotsOnGoal),
			fmt.Sprintf("%.1f%%", m.CorsiForPct()),
			fmt.Sprintf("%.2f", m.XGFor),
			fmt.Sprintf("%.2f", m.XGAgainst),
			strconv.Itoa(m.HighDangerFor),
			strconv.Itoa(m.HighDangerAgainst),
			strconv.Itoa(m.RushShots),
			strconv.Itoa(m.CycleShots),
			strconv.Itoa(m.ReboundShots),
			fmt.Sprintf("%.0f%%", m.FaceoffPct()),
			strconv.Itoa(m.ForecheckTurnovers),
			strconv.Itoa(m.Takeaways),
			fmt.Sprintf("%d/%d/%d", m.OffZoneGiveaways, m.NeutralGiveaways, m.DefZoneGiveaways),
			fmt.Sprintf("%d/%d/%d", m.EntriesCarry, m.EntriesPass, m.EntriesDump),
		)
	}
	table.Render()
}

// PrintTeamSeasonTable prints season rows sorted by points share proxy
// (wins desc, then goal differential).
func PrintTeamSeasonTable(w io.Writer, teams []model.TeamSeason) {
	sorted := make([]model.TeamSeason, len(teams))
	copy(sorted, teams)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Wins != sorted[j].Wins {
			return sorted[i].Wins > sorted[j].Wins
		}
		di := sorted[i].GoalsFor - sorted[i].GoalsAgainst
		dj := sorted[j].GoalsFor - sorted[j].GoalsAgainst
		return di > dj
	})

	table := newTable(w)
	table.Header(
		"TEAM", "GP", "W", "L", "OTL", "GF", "GA", "CF%", "XG/GP",
		"HD", "RUSH", "CYCLE", "REB", "FO%", "ENT_C/P/D",
	)
	for _, t := range sorted {
		table.Append(
			t.Abbrev,
			strconv.Itoa(t.GamesPlayed),
			strconv.Itoa(t.Wins),
			strconv.Itoa(t.Losses),
			strconv.Itoa(t.OTLosses),
			strconv.Itoa(t.GoalsFor),
			strconv.Itoa(t.GoalsAgainst),
			fmt.Sprintf("%.1f%%", t.CorsiForPct()),
			fmt.Sprintf("%.2f", t.XGPerGame()),
			strconv.Itoa(t.HighDangerFor),
			strconv.Itoa(t.RushShots),
			strconv.Itoa(t.CycleShots),
			strconv.Itoa(t.ReboundShots),
			fmt.Sprintf("%.0f%%", t.FaceoffPct()),
			fmt.Sprintf("%d/%d/%d", t.EntriesCarry, t.EntriesPass, t.EntriesDump),
		)
	}
	table.Render()
}

// PrintGoalieTable prints season goalie rows sorted by save percentage.
func PrintGoalieTable(w io.Writer, goalies []model.GoalieSeason) {
	sorted := make([]model.GoalieSeason, len(goalies))
	copy(sorted, goalies)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SavePct() > sorted[j].SavePct()
	})

	table := newTable(w)
	table.Header(
		"GOALIE", "C", "GP", "W-L-OTL", "SA", "GA", "SV%", "GAA", "GSAX",
		"HD_SV%", "GLOVE", "BLOCKER", "EV", "PK", "REB_GA",
	)
	for _, g := range sorted {
		table.Append(
			g.Name,
			g.Catches,
			strconv.Itoa(g.GamesPlayed),
			fmt.Sprintf("%d-%d-%d", g.Wins, g.Losses, g.OTLosses),
			strconv.Itoa(g.ShotsFaced),
			strconv.Itoa(g.GoalsAgainst),
			fmt.Sprintf("%.3f", g.SavePct()),
			fmt.Sprintf("%.2f", g.GAA()),
			fmt.Sprintf("%+.2f", g.GSAx()),
			fmt.Sprintf("%.3f", g.HighDangerSavePct()),
			fmt.Sprintf("%d/%d", g.GloveGoals, g.GloveShots),
			fmt.Sprintf("%d/%d", g.BlockerGoals, g.BlockerShots),
			fmt.Sprintf("%d/%d", g.EvenGoals, g.EvenShots),
			fmt.Sprintf("%d/%d", g.PPAgainstGoals, g.PPAgainstShots),
			strconv.Itoa(g.ReboundGoals),
		)
	}
	table.Render()
}

// PrintGoalieSplits prints one goalie's full season split detail.
func PrintGoalieSplits(w io.Writer, g *model.GoalieSeason) {
	fmt.Fprintf(w, "\n%s (catches %s)  GP %d  W-L-OTL %d-%d-%d  SV%% %.3f  GAA %.2f  GSAx %+.2f\n\n",
		g.Name, g.Catches, g.GamesPlayed, g.Wins, g.Losses, g.OTLosses,
		g.SavePct(), g.GAA(), g.GSAx())

	table := newTable(w)
	table.Header("SPLIT", "SHOTS", "GOALS", "SV%")
	row := func(name string, shots, goals int) {
		pct := 0.0
		if shots > 0 {
			pct = float64(shots-goals) / float64(shots)
		}
		table.Append(name, strconv.Itoa(shots), strconv.Itoa(goals), fmt.Sprintf("%.3f", pct))
	}
	row("high danger", g.HighDangerFaced, g.HighDangerGoals)
	row("medium", g.MediumFaced, g.MediumGoals)
	row("low", g.LowFaced, g.LowGoals)
	row("glove", g.GloveShots, g.GloveGoals)
	row("blocker", g.BlockerShots, g.BlockerGoals)
	row("center", g.CenterShots, g.CenterGoals)
	row("acute angle", g.AcuteShots, g.AcuteGoals)
	row("even strength", g.EvenShots, g.EvenGoals)
	row("penalty kill", g.PPAgainstShots, g.PPAgainstGoals)
	row("own power play", g.OwnPPShots, g.OwnPPGoals)
	row("rebounds", g.ReboundsFaced, g.ReboundGoals)
	table.Render()
}

// PrintFormTable prints recent-form rows for the given goalies over their
// last n games.
func PrintFormTable(w io.Writer, goalies []model.GoalieSeason, n int) {
	table := newTable(w)
	table.Header("GOALIE", "LAST", "W", "SA", "GA", "SV%", "GSAX")
	for _, g := range goalies {
		f := g.Form(n)
		if f.Games == 0 {
			continue
		}
		table.Append(
			g.Name,
			strconv.Itoa(f.Games),
			strconv.Itoa(f.Wins),
			strconv.Itoa(f.ShotsFaced),
			strconv.Itoa(f.GoalsAgainst),
			fmt.Sprintf("%.3f", f.SavePct()),
			fmt.Sprintf("%+.2f", f.GSAx()),
		)
	}
	table.Render()
}

// PrintRoutesTable prints discovered goal routes, most common first.
func PrintRoutesTable(w io.Writer, routes []cluster.Route) {
	table := newTable(w)
	table.Header("ROUTE", "GOALS", "START", "END", "AVG_PATH", "AVG_CURVE")
	for i, r := range routes {
		var path, curve, sx, sy, ex, ey float64
		for j, f := range r.Features {
			path += f.PathLength
			curve += f.Curvature
			pts := r.Trajectories[j].Points
			sx += pts[0].X
			sy += pts[0].Y
			ex += pts[len(pts)-1].X
			ey += pts[len(pts)-1].Y
		}
		n := float64(r.Size())
		table.Append(
			strconv.Itoa(i+1),
			strconv.Itoa(r.Size()),
			fmt.Sprintf("(%.0f, %.0f)", sx/n, sy/n),
			fmt.Sprintf("(%.0f, %.0f)", ex/n, ey/n),
			fmt.Sprintf("%.1f ft", path/n),
			fmt.Sprintf("%.2f", curve/n),
		)
	}
	table.Render()
}

// PrintGameList prints the stored-game index.
func PrintGameList(w io.Writer, games []model.GameSummary) {
	table := newTable(w)
	table.Header("GAME", "DATE", "HOME", "AWAY", "SCORE")
	for _, g := range games {
		table.Append(
			g.ID, g.Date, g.Home, g.Away,
			fmt.Sprintf("%d-%d", g.HomeScore, g.AwayScore),
		)
	}
	table.Render()
}
