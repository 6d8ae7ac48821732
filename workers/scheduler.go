package workers

import (
	"log"
	"sync"
	"time"

	"github.com/pixelgrove/photovaultbackend/config"
	"github.com/pixelgrove/photovaultbackend/scripting"
)

// Scheduler owns the background loops: one fixed-delay change detection
// poll and two independent one-minute custom-script sweeps.
type Scheduler struct {
	Cfg      *config.Provider
	Detector *ChangeDetector
	Pipeline *Pipeline
	Scripts  *scripting.Executor

	StopChan chan struct{}
	Wg       sync.WaitGroup
}

func NewScheduler(cfg *config.Provider, detector *ChangeDetector, pipeline *Pipeline, scripts *scripting.Executor) *Scheduler {
	return &Scheduler{
		Cfg:      cfg,
		Detector: detector,
		Pipeline: pipeline,
		Scripts:  scripts,
		StopChan: make(chan struct{}),
	}
}

// Start launches the loops on their own goroutines
func (s *Scheduler) Start() {
	s.Wg.Add(3)
	go s.pollLoop()
	go s.clockSweepLoop()
	go s.intervalSweepLoop()
	log.Printf("scheduler: started (poll every %s after %s grace)", s.Cfg.PollInterval(), s.Cfg.StartupGrace())
}

// pollLoop runs change detection on a fixed delay: the next cycle is
// scheduled only after the previous one, including asset processing, has
// finished. The interval is re-read each cycle so config changes apply.
func (s *Scheduler) pollLoop() {
	defer s.Wg.Done()

	select {
	case <-time.After(s.Cfg.StartupGrace()):
	case <-s.StopChan:
		return
	}

	for {
		s.runPollCycle()

		select {
		case <-time.After(s.Cfg.PollInterval()):
		case <-s.StopChan:
			log.Println("scheduler: poll loop stopping")
			return
		}
	}
}

func (s *Scheduler) runPollCycle() {
	paths, err := s.Detector.Poll()
	if err != nil {
		// poll state was not advanced; the same work is retried next cycle
		log.Printf("scheduler: change detection failed, will retry: %v", err)
		return
	}
	if len(paths) == 0 {
		return
	}

	log.Printf("scheduler: detected %d changed image file(s)", len(paths))
	for _, path := range paths {
		if _, err := s.Pipeline.ProcessAsset(path, ""); err != nil {
			log.Printf("scheduler: failed to process %s: %v", path, err)
		}
	}
}

func (s *Scheduler) clockSweepLoop() {
	defer s.Wg.Done()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			s.Scripts.RunClockSweep(now)
		case <-s.StopChan:
			log.Println("scheduler: clock sweep stopping")
			return
		}
	}
}

func (s *Scheduler) intervalSweepLoop() {
	defer s.Wg.Done()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			s.Scripts.RunIntervalSweep(now)
		case <-s.StopChan:
			log.Println("scheduler: interval sweep stopping")
			return
		}
	}
}

// Stop signals all loops and waits for them to finish
func (s *Scheduler) Stop() {
	log.Println("scheduler: stopping...")
	close(s.StopChan)
	s.Wg.Wait()
	log.Println("scheduler: all loops stopped")
}
