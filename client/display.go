package client

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Display is what the panel shows for one status message. Open[i] tells
// whether Zones[i] is open.
type Display struct {
	State string
	Entry string
	Zones []string
	Open  []bool
}

// Render builds the display for msg. Every message replaces the whole
// display so prev is never consulted.
func Render(prev *Display, msg StatusMessage) Display {
	zones := make([]string, len(msg.Zones))
	open := make([]bool, len(msg.Zones))
	for i, o := range msg.Zones {
		zones[i] = ZoneLine(i+1, o)
		open[i] = o
	}
	return Display{
		State: msg.State,
		Entry: EntryText(msg.Entry),
		Zones: zones,
		Open:  open,
	}
}

// EntryText returns the entry delay text, empty when no delay is running
func EntryText(entry float64) string {
	if entry <= 0 {
		return ""
	}
	return "ENTRY: " + formatNumber(entry)
}

// formatNumber prints v the way a browser does: plain decimals between
// 1e-6 and 1e21, exponent form outside (1e+21, 1e-7)
func formatNumber(v float64) string {
	abs := math.Abs(v)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
	return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}

// ZoneLine returns the line for the zone at 1-based index
func ZoneLine(index int, open bool) string {
	status := "OK"
	if open {
		status = "OPEN"
	}
	return fmt.Sprintf("Zone %d: %s", index, status)
}

// OpenZones returns how many zones of msg are open
func (m StatusMessage) OpenZones() int {
	n := 0
	for _, open := range m.Zones {
		if open {
			n++
		}
	}
	return n
}

func (d Display) String() string {
	return fmt.Sprintf("%s [%s] %s", d.State, d.Entry, strings.Join(d.Zones, ", "))
}
