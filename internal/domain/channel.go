package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Channel is an independent delivery pathway.
type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelSMS   Channel = "SMS"
	ChannelPush  Channel = "PUSH"
)

// AllChannels lists every channel in canonical order.
var AllChannels = []Channel{ChannelEmail, ChannelSMS, ChannelPush}

// ParseChannel accepts a channel name in any case.
func ParseChannel(s string) (Channel, error) {
	switch c := Channel(strings.ToUpper(strings.TrimSpace(s))); c {
	case ChannelEmail, ChannelSMS, ChannelPush:
		return c, nil
	}
	return "", fmt.Errorf("unknown channel %q", s)
}

// ParseChannels parses a list of channel names, dropping duplicates and
// keeping first-seen order.
func ParseChannels(in []string) ([]Channel, error) {
	out := make([]Channel, 0, len(in))
	for _, s := range in {
		c, err := ParseChannel(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return UniqueChannels(out), nil
}

// UniqueChannels drops repeated channels, keeping first-seen order.
func UniqueChannels(in []Channel) []Channel {
	seen := make(map[Channel]struct{}, len(in))
	out := make([]Channel, 0, len(in))
	for _, c := range in {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// SortChannels orders channels canonically (EMAIL, SMS, PUSH) in place.
func SortChannels(cs []Channel) {
	slices.SortStableFunc(cs, func(a, b Channel) int {
		return channelRank(a) - channelRank(b)
	})
}

func channelRank(c Channel) int {
	if i := slices.Index(AllChannels, c); i >= 0 {
		return i
	}
	return len(AllChannels)
}
