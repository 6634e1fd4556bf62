package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/animstudio/logging"
	"github.com/matt-g-everett/animstudio/preview"
	"github.com/matt-g-everett/animstudio/studio"
)

const (
	commandQueueSize = 64
	publishTimeout   = 5 * time.Second
)

// Publisher sends a payload to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Broadcaster fans data out to live viewers.
type Broadcaster interface {
	Broadcast(data []byte)
}

// MQTTPublisher publishes through a paho client.
type MQTTPublisher struct {
	client mqtt.Client
	qos    byte
}

// NewMQTTPublisher creates an MQTTPublisher.
func NewMQTTPublisher(client mqtt.Client, qos byte) *MQTTPublisher {
	return &MQTTPublisher{client: client, qos: qos}
}

// Publish sends payload and waits for the client to accept it.
func (p *MQTTPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, p.qos, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publishing to %s: timeout after %v", topic, publishTimeout)
	}
	return token.Error()
}

// Streamer runs the frame loop: it executes queued commands, advances the
// timeline, resolves every host animation through the studio and publishes the
// result. All studio access happens on the goroutine calling Run.
type Streamer struct {
	config      Config
	studio      *studio.Studio
	controller  *Controller
	publisher   Publisher
	broadcaster Broadcaster
	renderer    *preview.Renderer
	snapshots   *SnapshotStore
	animations  []Animation
	commands    chan []byte
	logger      *logging.Logger
	previewed   string
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(config Config, s *studio.Studio, publisher Publisher, logger *logging.Logger) *Streamer {
	st := new(Streamer)
	st.config = config
	st.studio = s
	st.controller = NewController(s)
	st.publisher = publisher
	st.renderer = preview.NewRenderer(config.Preview.Width, config.Preview.Height)
	st.snapshots = new(SnapshotStore)
	st.commands = make(chan []byte, commandQueueSize)
	st.logger = logger.With("component", "streamer")
	return st
}

// AddAnimation adds a host animation to the loop.
func (s *Streamer) AddAnimation(a Animation) {
	s.animations = append(s.animations, a)
}

// SetBroadcaster sets where snapshots are pushed after each frame.
func (s *Streamer) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Snapshots returns the store the loop publishes snapshots to.
func (s *Streamer) Snapshots() *SnapshotStore {
	return s.snapshots
}

// HandleCommand queues a JSON command for the next frame. Safe to call from
// any goroutine.
func (s *Streamer) HandleCommand(payload []byte) error {
	select {
	case s.commands <- payload:
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe listens for commands on the configured topic.
func (s *Streamer) Subscribe(client mqtt.Client) error {
	topic := s.config.Mqtt.Topics.Command
	token := client.Subscribe(topic, s.config.Mqtt.QoS, s.handleMessage)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("subscribing to %s: timeout after %v", topic, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	s.logger.Info("subscribed", "topic", topic)
	return nil
}

func (s *Streamer) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("command handler panic recovered", "topic", msg.Topic(), "panic", r)
		}
	}()

	if err := s.HandleCommand(msg.Payload()); err != nil {
		s.logger.Warn("command dropped", "topic", msg.Topic(), "error", err)
	}
}

// Run calls Step at the configured frame rate until ctx is done.
func (s *Streamer) Run(ctx context.Context) error {
	interval := time.Duration(float64(time.Second) / s.config.Timeline.FrameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("frame loop started", "interval", interval)
	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("frame loop stopped")
			return nil
		case now := <-ticker.C:
			s.Step(now.Sub(start).Milliseconds())
		}
	}
}

// Step runs a single frame.
func (s *Streamer) Step(runtimeMs int64) {
	s.drainCommands()
	s.studio.Tick()

	frames := make([]*Frame, 0, len(s.animations))
	for _, a := range s.animations {
		frames = append(frames, s.resolve(a, runtimeMs))
	}

	s.updatePreviews()

	snap := TakeSnapshot(s.studio, frames, s.renderer.Images())
	s.snapshots.Store(snap)
	if s.broadcaster != nil {
		data, err := json.Marshal(snap)
		if err != nil {
			s.logger.Warn("encoding snapshot failed", "error", err)
			return
		}
		s.broadcaster.Broadcast(data)
	}
}

// resolve computes a host frame and passes each value through the studio.
func (s *Streamer) resolve(a Animation, runtimeMs int64) *Frame {
	element := a.Element()
	f := a.CalculateFrame(runtimeMs)
	f.Time = s.hostTick(runtimeMs)

	if s.studio.IsObserveMode(element) {
		s.studio.SetTime(element, f.Time)
	}
	for i, control := range f.Controls {
		f.Values[i] = s.studio.Resolve(element, control, f.Values[i])
	}
	if element == s.studio.Timeline().Selected() {
		f.Time = s.studio.Timeline().Time()
	}

	data, err := f.MarshalBinary()
	if err != nil {
		s.logger.Warn("encoding frame failed", "element", element, "error", err)
		return f
	}
	if err := s.publisher.Publish(s.config.Mqtt.Topics.Frame+"/"+element, data); err != nil {
		s.logger.Debug("frame publish failed", "element", element, "error", err)
	}
	return f
}

// hostTick maps host runtime onto the timeline range, wrapping at the end.
func (s *Streamer) hostTick(runtimeMs int64) int {
	min, max := s.studio.Timeline().Bounds()
	ticks := int64(float64(runtimeMs) * s.config.Timeline.FrameRate / 1000.0)
	return min + int(ticks%int64(max-min+1))
}

func (s *Streamer) drainCommands() {
	for {
		select {
		case payload := <-s.commands:
			s.execute(payload)
		default:
			return
		}
	}
}

func (s *Streamer) execute(payload []byte) {
	reply := s.controller.Handle(payload)
	if !reply.OK {
		s.logger.Info("command failed", "id", reply.ID, "op", reply.op, "error", reply.Error)
	}

	data, err := json.Marshal(reply)
	if err != nil {
		s.logger.Warn("encoding reply failed", "id", reply.ID, "error", err)
		return
	}
	if err := s.publisher.Publish(s.config.Mqtt.Topics.Reply, data); err != nil {
		s.logger.Warn("reply publish failed", "id", reply.ID, "error", err)
	}

	if text, ok := reply.Result.(string); ok && reply.OK && (reply.op == "export" || reply.op == "export-all") {
		s.logger.Info("animation exported", "op", reply.op, "text", text)
		if err := s.publisher.Publish(s.config.Mqtt.Topics.Export, []byte(text)); err != nil {
			s.logger.Warn("export publish failed", "error", err)
		}
	}
}

// updatePreviews redraws the dirty tracks of the selected element.
func (s *Streamer) updatePreviews() {
	selected := s.studio.Timeline().Selected()
	if selected != s.previewed {
		s.renderer.Reset()
		s.previewed = selected
	}

	e, ok := s.studio.Registry().Element(selected)
	if !ok {
		return
	}

	min, max := s.studio.Timeline().Bounds()
	for _, control := range e.Controls() {
		track, _ := e.Track(control)
		if _, err := s.renderer.Update(control, track, min, max); err != nil {
			s.logger.Warn("preview failed", "element", selected, "control", control, "error", err)
		}
	}
}
