package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/peterkuimelis/pipduel/internal/combo"
	"github.com/peterkuimelis/pipduel/internal/config"
	"github.com/peterkuimelis/pipduel/internal/game"
	"github.com/peterkuimelis/pipduel/internal/planner"
)

func box(title string) *pterm.BoxPrinter {
	return pterm.DefaultBox.WithHorizontalPadding(2).WithTitle(title).WithTitleTopCenter()
}

// pipRow prints resolved pips, highlighting the contributing positions.
func pipRow(r combo.Result, wild []bool) string {
	parts := make([]string, len(r.Pips))
	for i, p := range r.Pips {
		s := strconv.Itoa(p)
		if p == 0 {
			s = "_"
		}
		if i < len(wild) && wild[i] {
			s += "*"
		}
		if i < len(r.Mask) && r.Mask[i] {
			s = pterm.LightYellow(s)
		} else {
			s = pterm.Gray(s)
		}
		parts[i] = s
	}
	return strings.Join(parts, " ")
}

func renderResult(title string, r combo.Result, wild []bool) {
	body := pterm.Sprintfln("%s  %s", pterm.LightCyan(r.Rule.String()), pterm.Sprintf("%.1f", r.Score))
	body += pipRow(r, wild)
	box(title).Println(body)
}

func placementList(hand []planner.Card, ps []planner.Placement) string {
	if len(ps) == 0 {
		return pterm.Gray("none")
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		face := strconv.Itoa(hand[p.Card].Pip)
		if hand[p.Card].Wild {
			face = "W"
		}
		parts[i] = fmt.Sprintf("#%d(%s)→slot %d", p.Card, face, p.Slot)
	}
	return strings.Join(parts, "  ")
}

func renderPlan(hand []planner.Card, plan planner.Plan) {
	td := pterm.TableData{
		{"", "Placements", "Rule", "Score"},
		{pterm.LightRed("Attack"), placementList(hand, plan.Attack), plan.AttackResult.Rule.String(), fmt.Sprintf("%.1f", plan.AttackResult.Score)},
		{pterm.LightBlue("Defense"), placementList(hand, plan.Defense), plan.DefenseResult.Rule.String(), fmt.Sprintf("%.1f", plan.DefenseResult.Score)},
	}
	pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(td).Render()
}

func renderRules(rules config.Rules) {
	ev := combo.New(rules.Scoring)
	td := pterm.TableData{{"Rank", "Rule", "Example", "Score"}}
	examples := map[combo.Rule][]int{
		combo.RuleHighCard:     {6, 4, 3, 2, 1},
		combo.RuleOnePair:      {6, 6, 3, 2, 1},
		combo.RuleTwoPair:      {6, 6, 3, 3, 1},
		combo.RuleTriple:       {6, 6, 6, 2, 1},
		combo.RuleStraightLow:  {1, 2, 3, 4, 5},
		combo.RuleStraightHigh: {2, 3, 4, 5, 6},
		combo.RuleFullHouse:    {6, 6, 6, 3, 3},
		combo.RuleFourOfAKind:  {6, 6, 6, 6, 1},
		combo.RuleFiveOfAKind:  {6, 6, 6, 6, 6},
	}
	for _, r := range combo.Rules() {
		pips, ok := examples[r]
		if !ok {
			continue
		}
		res := ev.Evaluate(pips, nil)
		td = append(td, []string{strconv.Itoa(int(r)), r.String(), fmt.Sprint(pips), fmt.Sprintf("%.1f", res.Score)})
	}
	pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(td).Render()

	m := rules.Match
	pterm.Info.Printfln("HP %.0f  turn %.0fs  deal %d  hand max %d  slots %d", m.MaxHP, m.TurnTime, m.DrawCount, m.MaxCards, m.Slots)
	pterm.Info.Printfln("roles: attack x%.1f  critical x%.1f  heal x%.1f", rules.Roles.Attack, rules.Roles.Critical, rules.Roles.Heal)
}

func roleColor(c game.Card) string {
	switch c.Role {
	case game.RoleCritical:
		return pterm.LightYellow(c.Face())
	case game.RoleHeal:
		return pterm.LightGreen(c.Face())
	default:
		return pterm.LightRed(c.Face())
	}
}

// slotRow draws one side's slots. Face-down cards are hidden unless owned.
func slotRow(slots []game.SlotView, board combo.Result, owned bool) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		var face string
		switch {
		case s.State == game.SlotEmpty:
			face = pterm.Gray("_")
		case s.FaceDown && !owned:
			face = pterm.Blue("?")
		case s.FaceDown:
			face = pterm.Blue("[" + s.Card.Face() + "]")
		case s.State == game.SlotRevealedOnly:
			face = pterm.Gray("(" + s.Card.Face() + ")")
		default:
			face = roleColor(s.Card)
			if i < len(board.Mask) && board.Mask[i] {
				face = pterm.Bold.Sprint(face) + "*"
			}
		}
		parts[i] = fmt.Sprintf("%d:%s", i, face)
	}
	return strings.Join(parts, "  ")
}

func sidePanel(snap game.Snapshot, side int, owned bool) pterm.Panel {
	board := snap.Boards[side]
	var sb strings.Builder
	sb.WriteString(pterm.Sprintfln("HP %.1f / %.0f", snap.HP.Current[side], snap.HP.Max))
	sb.WriteString(pterm.Sprintfln("%s", slotRow(snap.Slots[side], board, owned)))
	sb.WriteString(fmt.Sprintf("board: %s (%.1f)", board.Rule, board.Score))
	if owned {
		hand := snap.Hands[side]
		parts := make([]string, len(hand))
		for i, c := range hand {
			parts[i] = fmt.Sprintf("#%d %s", i, roleColor(c))
		}
		sb.WriteString("\nhand:  " + strings.Join(parts, "  "))
	}
	title := pterm.LightMagenta("|OPPONENT|")
	if owned {
		title = pterm.LightCyan("|YOU|")
	}
	return pterm.Panel{Data: box(title).Sprint(sb.String())}
}

func renderMatch(m *game.Match, side int) {
	snap := m.Snapshot()
	st := snap.State
	turn := "opponent's turn"
	if st.Active() == side {
		turn = fmt.Sprintf("your turn, %.0fs left", st.TurnTimer)
	}
	pterm.DefaultSection.Printfln("Turn %d: %s", st.Turn, turn)
	pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		{sidePanel(snap, game.Opponent(side), false)},
		{sidePanel(snap, side, true)},
	}).Render()
}

func renderOutcome(out *game.Outcome) {
	var sb strings.Builder
	sb.WriteString(pterm.Sprintfln("%s: %s", pterm.LightCyan(out.Kind.String()), strings.Join(out.RuleNames[:], " vs ")))
	if out.Winner >= 0 {
		sb.WriteString(pterm.Sprintfln("winner P%d  score %.1f  damage %.1f  heal %.1f", out.Winner+1, out.Score, out.Damage, out.Heal))
	}
	sb.WriteString(fmt.Sprintf("HP %.1f / %.1f  next draw %d / %d", out.HP[0], out.HP[1], out.NextDraw[0], out.NextDraw[1]))
	box(pterm.LightYellow(fmt.Sprintf("|P%d ATTACKS|", out.Attacker+1))).Println(sb.String())
}
