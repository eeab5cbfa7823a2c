package sim

import (
	"github.com/san-kum/conflictsim/internal/model"
	"github.com/sirupsen/logrus"
)

// ProgressLogger logs both sides' capability every Every days at debug level.
type ProgressLogger struct {
	Every int
}

func (p ProgressLogger) OnStep(t int, a, b *model.Belligerent) {
	if p.Every <= 0 || t%p.Every != 0 {
		return
	}
	logrus.WithFields(logrus.Fields{
		"day":    t,
		a.Name(): a.MilitaryCapability(),
		b.Name(): b.MilitaryCapability(),
	}).Debug("military capability")
}
