package buildpipeline

import "sync"

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// LockedSink serializes events from parallel workers into Next.
type LockedSink struct {
	mu   sync.Mutex
	Next ProgressSink
}

func (s *LockedSink) OnEvent(evt Event) {
	if s == nil || s.Next == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Next.OnEvent(evt)
}
