package log

import (
	"strings"

	"github.com/sirupsen/logrus"
)

func init() {
	logrus.SetLevel(logrus.InfoLevel)
	logrus.StandardLogger().Formatter.(*logrus.TextFormatter).ForceColors = true
	logrus.AddHook(new(TaggedHook))
}

func NewLogger(tag string) *logrus.Entry {
	return logrus.NewEntry(logrus.StandardLogger()).WithField("tag", tag)
}

// SetLevel parses a logrus level name and applies it to the standard logger.
func SetLevel(level string) error {
	if level == "" {
		return nil
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(parsed)
	return nil
}

type TaggedHook struct{}

func (h *TaggedHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *TaggedHook) Fire(entry *logrus.Entry) error {
	if tagObj, loaded := entry.Data["tag"]; loaded {
		tag, isString := tagObj.(string)
		if !isString {
			return nil
		}
		delete(entry.Data, "tag")
		entry.Message = strings.ReplaceAll(entry.Message, tag+": ", "")
		entry.Message = "[" + tag + "]: " + entry.Message
	}
	return nil
}
