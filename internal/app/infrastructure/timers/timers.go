package timers

import (
	"sync"
	"time"
)

type timer struct {
	id       string
	interval time.Duration
	task     func()
}

type slot struct {
	timers map[string]*timer
}

// TimingWheel schedules repeating tasks on a coarse tick.
type TimingWheel struct {
	tickDuration time.Duration
	slots        []*slot
	currentPos   int
	slotsCount   int
	mutex        sync.Mutex
	ticker       *time.Ticker
	done         chan struct{}
}

func NewTimingWheel(tickDuration time.Duration, slotsCount int) *TimingWheel {
	tw := &TimingWheel{
		tickDuration: tickDuration,
		slotsCount:   slotsCount,
		slots:        make([]*slot, slotsCount),
		done:         make(chan struct{}),
	}

	for i := range tw.slots {
		tw.slots[i] = &slot{timers: make(map[string]*timer)}
	}

	tw.ticker = time.NewTicker(tickDuration)
	go tw.start()
	return tw
}

func (tw *TimingWheel) start() {
	for {
		select {
		case <-tw.done:
			return
		case <-tw.ticker.C:
			tw.mutex.Lock()
			currentSlot := tw.slots[tw.currentPos]

			for id, t := range currentSlot.timers {
				go t.task()
				nextPos := (tw.currentPos + int(t.interval/tw.tickDuration)) % tw.slotsCount
				if nextPos != tw.currentPos {
					tw.slots[nextPos].timers[id] = t
				}
				delete(currentSlot.timers, id)
			}

			tw.currentPos = (tw.currentPos + 1) % tw.slotsCount
			tw.mutex.Unlock()
		}
	}
}

func (tw *TimingWheel) AddTimer(id string, interval time.Duration, task func()) {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()

	t := &timer{
		id:       id,
		interval: interval,
		task:     task,
	}

	pos := (tw.currentPos + int(interval/tw.tickDuration)) % tw.slotsCount
	tw.slots[pos].timers[id] = t
}

func (tw *TimingWheel) RemoveTimer(id string) {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()

	for _, s := range tw.slots {
		delete(s.timers, id)
	}
}

func (tw *TimingWheel) Stop() {
	tw.ticker.Stop()
	close(tw.done)
}
