package helper

import (
	"fmt"
	"math"
	"strings"
)

// SecondsToMinutes formats seconds as minutes:seconds.milliseconds.
func SecondsToMinutes(seconds float64) string {
	if seconds <= 0 || math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return "-"
	}
	ms := int64(math.Round(seconds * 1000))
	minutes := ms / 60000
	ms -= minutes * 60000
	return fmt.Sprintf("%02d:%02d.%03d", minutes, ms/1000, ms%1000)
}

// SecondsToDiff formats a gap to the leader, "-" for the leader itself.
func SecondsToDiff(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	return fmt.Sprintf("+%.3fs", seconds)
}

// GetDriverCodeName returns a three letter code: the first letter of the name
// and two letters of the surname, or the first three letters of a single name.
func GetDriverCodeName(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return ""
	}
	first := []rune(words[0])
	code := string(first[0])
	if len(words) > 1 {
		surname := []rune(words[len(words)-1])
		if len(surname) > 2 {
			surname = surname[:2]
		}
		code += string(surname)
	} else if len(first) > 2 {
		code += string(first[1:3])
	} else {
		code = string(first)
	}
	return strings.ToUpper(code)
}
