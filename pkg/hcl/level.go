package hcl

import (
	"fmt"
	"strconv"
)

// SupportLevel is the coarse tier of support claimed for a device, from 1
// (least) to 5 (most). The data file only carries the number; the labels
// below are descriptive text for CLI and HTTP output and are not read from
// the table. Level 2 is a valid tier that no row currently uses.
type SupportLevel int

const (
	LevelNoCooperation SupportLevel = 1
	LevelLimited       SupportLevel = 2
	LevelCommunity     SupportLevel = 3
	LevelProtocol      SupportLevel = 4
	LevelManufacturer  SupportLevel = 5
)

var levelLabels = map[SupportLevel]string{
	LevelNoCooperation: "no manufacturer cooperation",
	LevelLimited:       "limited",
	LevelCommunity:     "community supported",
	LevelProtocol:      "protocol provided by manufacturer",
	LevelManufacturer:  "protocol and hardware provided by manufacturer",
}

// KnownLevels returns every valid support level in ascending order.
func KnownLevels() []SupportLevel {
	return []SupportLevel{
		LevelNoCooperation,
		LevelLimited,
		LevelCommunity,
		LevelProtocol,
		LevelManufacturer,
	}
}

func (sl SupportLevel) Valid() bool {
	_, ok := levelLabels[sl]
	return ok
}

// Label returns the legend text for the level, or an empty string when the
// level is not a known tier.
func (sl SupportLevel) Label() string {
	return levelLabels[sl]
}

func (sl SupportLevel) String() string {
	return strconv.Itoa(int(sl))
}

func (sl *SupportLevel) Set(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil || !SupportLevel(n).Valid() {
		return fmt.Errorf("must be one of %v", KnownLevels())
	}
	*sl = SupportLevel(n)
	return nil
}

func (sl SupportLevel) Type() string {
	return "SupportLevel"
}
