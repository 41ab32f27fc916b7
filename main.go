// Package main is the entry point for the nhlmetrics CLI tool, which fetches
// NHL play-by-play data and computes expected goals, shot patterns, goalie
// splits, and season aggregates.
package main

import "github.com/emilyfehr99/Automated-Post-Game-Reports-sub000/cmd"

func main() {
	cmd.Execute()
}
