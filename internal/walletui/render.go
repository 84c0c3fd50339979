// Package walletui is the terminal front end of the wallet: a header with the
// ledger statistics, the donation list with selection markers and the action
// menu.
package walletui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/donation-wallet/internal/money"
	"github.com/donation-wallet/internal/wallet"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	warning   = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FDBA74"}

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(0, 2).
			Bold(true)

	statStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 2)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(special).
			Padding(0, 1).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().Foreground(special).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(subtle)
	noticeStyle   = lipgloss.NewStyle().Foreground(warning)
)

// Header renders the wallet statistics block
func Header(s wallet.Summary, windowDays int, currency string) string {
	title := titleStyle.Render("BAĞIŞ CÜZDANI")

	if s.Loading && !s.Loaded {
		return lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("Bağışlar yükleniyor..."))
	}

	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		statStyle.Render("Bakiye\n"+money.Format(s.Balance, currency)),
		statStyle.Render(fmt.Sprintf("Son %d gün\n%s", windowDays, money.Format(s.RecentSum, currency))),
		statStyle.Render(fmt.Sprintf("Bağış\n%d", s.Records)),
	)

	lines := []string{title, stats}
	if s.Selected > 0 {
		badge := badgeStyle.Render(fmt.Sprintf("%d seçili", s.Selected))
		if s.Dangling > 0 {
			badge += " " + noticeStyle.Render(fmt.Sprintf("(%d listede yok)", s.Dangling))
		}
		lines = append(lines, badge)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RecordLine is one donation as shown in the list and the toggle menu
func RecordLine(r wallet.DonationRecord, selected bool, currency string) string {
	marker := "[ ]"
	if selected {
		marker = "[x]"
	}
	date := "tarih yok"
	if r.Date != nil {
		date = r.Date.Local().Format("02.01.2006 15:04")
	}
	return fmt.Sprintf("%s %-24s %14s  %s", marker, r.DisplayName(), money.Format(r.Amount, currency), date)
}

// Ledger renders the donation list, highlighting selected rows
func Ledger(records []wallet.DonationRecord, sel *wallet.Selection, currency string) string {
	if len(records) == 0 {
		return mutedStyle.Render("Henüz bağış yok.")
	}
	var b strings.Builder
	for i, r := range records {
		if i > 0 {
			b.WriteByte('\n')
		}
		line := RecordLine(r, sel.IsSelected(r.ID), currency)
		if sel.IsSelected(r.ID) {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
	}
	return b.String()
}

// Notice renders a transient message, or nothing
func Notice(msg string) string {
	if msg == "" {
		return ""
	}
	return noticeStyle.Render(msg)
}
