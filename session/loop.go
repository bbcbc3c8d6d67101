package session

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// InputSource yields the input for the next tick.
type InputSource func() Input

// Loop drives a Session at a fixed rate without a window.
type Loop struct {
	session  *Session
	tickRate int
	input    InputSource
	stopChan chan struct{}
	log      *logrus.Entry
}

func NewLoop(s *Session, tickRate int, input InputSource) *Loop {
	if input == nil {
		input = func() Input { return Input{} }
	}
	return &Loop{
		session:  s,
		tickRate: tickRate,
		input:    input,
		stopChan: make(chan struct{}),
		log:      s.log,
	}
}

// Run ticks until ctx is done, Stop is called, or Tick fails.
func (l *Loop) Run(ctx context.Context) error {
	dt := time.Second / time.Duration(l.tickRate)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	l.log.Infof("loop started at %d ticks/second", l.tickRate)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.stopChan:
			l.log.Info("loop stopped")
			return nil
		case <-l.session.Done():
			return l.session.Tick(Input{}, dt)
		case <-ticker.C:
			if err := l.session.Tick(l.input(), dt); err != nil {
				return err
			}
		}
	}
}

func (l *Loop) Stop() {
	close(l.stopChan)
}
