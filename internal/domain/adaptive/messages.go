package adaptive

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MessageKey identifies one encouragement rule.
type MessageKey string

// Encouragement rule keys, in evaluation order
const (
	MessageStreakCelebration MessageKey = "streak_celebration"
	MessageStreakPraise      MessageKey = "streak_praise"
	MessageTryEasier         MessageKey = "try_easier"
	MessageGentleTip         MessageKey = "gentle_tip"
	MessageReadyForChallenge MessageKey = "ready_for_challenge"
)

// defaultMessages holds the built-in encouragement copy.
var defaultMessages = map[MessageKey]string{
	MessageStreakCelebration: "Amazing streak! You're on fire!",
	MessageStreakPraise:      "Great job! Keep it up!",
	MessageTryEasier:         "Let's try something a little easier.",
	MessageGentleTip:         "Take your time. Use a hint if you need one.",
	MessageReadyForChallenge: "You're doing great! Ready for a challenge?",
}

// DefaultMessage returns the built-in text for key.
func DefaultMessage(key MessageKey) string {
	return defaultMessages[key]
}

// signals is the post-update view of a state that rules are evaluated against.
type signals struct {
	consecutiveCorrect   int
	consecutiveIncorrect int
	successRate          float64
	windowLength         int
}

// EncouragementRule pairs a predicate with the message shown when it matches.
type EncouragementRule struct {
	Key       MessageKey
	Message   string
	predicate func(s signals) bool
}

// MessageCatalog overrides encouragement copy per rule key. Keys that are not
// present keep the default text.
type MessageCatalog map[MessageKey]string

// catalogFile is the on-disk YAML layout of a message catalog.
type catalogFile struct {
	Messages map[string]string `yaml:"messages"`
}

// ParseMessageCatalog decodes a YAML catalog and rejects unknown keys.
func ParseMessageCatalog(data []byte) (MessageCatalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing message catalog: %w", err)
	}

	catalog := make(MessageCatalog, len(f.Messages))
	for k, v := range f.Messages {
		key := MessageKey(k)
		if _, ok := defaultMessages[key]; !ok {
			return nil, fmt.Errorf("unknown message key %q", k)
		}
		if v == "" {
			return nil, fmt.Errorf("message %q cannot be empty", k)
		}
		catalog[key] = v
	}
	return catalog, nil
}

// LoadMessageCatalog reads a YAML catalog from path.
func LoadMessageCatalog(path string) (MessageCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading message catalog: %w", err)
	}
	return ParseMessageCatalog(data)
}

// EncouragementRules returns the ordered rule list for params. The first
// matching rule wins; catalog may be nil.
func EncouragementRules(params *Params, catalog MessageCatalog) []EncouragementRule {
	rules := []EncouragementRule{
		{
			Key:       MessageStreakCelebration,
			predicate: func(s signals) bool { return s.consecutiveCorrect >= params.CelebrationStreak },
		},
		{
			Key:       MessageStreakPraise,
			predicate: func(s signals) bool { return s.consecutiveCorrect >= params.PraiseStreak },
		},
		{
			Key:       MessageTryEasier,
			predicate: func(s signals) bool { return s.consecutiveIncorrect >= params.EasierItemStreak },
		},
		{
			Key:       MessageGentleTip,
			predicate: func(s signals) bool { return s.consecutiveIncorrect >= params.GentleTipStreak },
		},
		{
			Key:       MessageReadyForChallenge,
			predicate: func(s signals) bool { return s.successRate > params.ChallengeRate },
		},
	}

	for i := range rules {
		rules[i].Message = defaultMessages[rules[i].Key]
		if msg, ok := catalog[rules[i].Key]; ok {
			rules[i].Message = msg
		}
	}
	return rules
}

// selectEncouragement evaluates rules top to bottom.
func selectEncouragement(rules []EncouragementRule, s signals) *string {
	for _, rule := range rules {
		if rule.predicate(s) {
			msg := rule.Message
			return &msg
		}
	}
	return nil
}
