package studio

import (
	"errors"
	"testing"

	"github.com/matt-g-everett/animstudio/keyframe"
)

func newExportStudio(opts ExportOptions) *Studio {
	s := New(Options{MinTime: 0, MaxTime: 4, Export: opts})
	c := Control{Min: 0, Max: 10, Step: 1}
	s.RegisterControl("ship", "thrust", c)
	s.RegisterControl("ship", "roll", c)
	s.RegisterControl("ship", "yaw", c)
	s.RegisterElement("empty")

	thrust, _ := s.Track("ship", "thrust")
	thrust.AddOrUpdateKeyFrame(0, 0, keyframe.Linear)
	thrust.AddOrUpdateKeyFrame(4, 10, keyframe.InQuad)

	yaw, _ := s.Track("ship", "yaw")
	yaw.AddOrUpdateKeyFrame(2, 5, keyframe.Linear)
	yaw.Disabled = true
	return s
}

func TestExportTrack(t *testing.T) {
	tests := []struct {
		name  string
		opts  ExportOptions
		dense bool
		want  string
	}{
		{
			"sparse",
			DefaultExportOptions(),
			false,
			"\r\n\r\nnew SortedDictionary<int, KeyFrame>() { { 0, new KeyFrame(0f, KeyMode.Linear) }, { 4, new KeyFrame(10f, KeyMode.InQuad) }, };",
		},
		{
			"dense",
			DefaultExportOptions(),
			true,
			"\r\n\r\nnew List<float>() { 0f, 2.5f, 5f, 7.5f, 10f, };",
		},
		{
			"dense normalised",
			ExportOptions{Precision: -1, Normalise: true},
			true,
			"\r\n\r\nnew List<float>() { 0f, 0.25f, 0.5f, 0.75f, 1f, };",
		},
		{
			"sparse fixed precision",
			ExportOptions{Precision: 2},
			false,
			"\r\n\r\nnew SortedDictionary<int, KeyFrame>() { { 0, new KeyFrame(0.00f, KeyMode.Linear) }, { 4, new KeyFrame(10.00f, KeyMode.InQuad) }, };",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newExportStudio(tt.opts)

			got, err := s.ExportTrack("ship", "thrust", tt.dense)
			if err != nil {
				t.Fatalf("ExportTrack() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExportTrack() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExportTrack_DenseRestoresCurrentValue(t *testing.T) {
	s := newExportStudio(DefaultExportOptions())
	s.Timeline().SetMode(Override)
	s.Timeline().Seek(2)

	thrust, _ := s.Track("ship", "thrust")
	before := thrust.Value()

	if _, err := s.ExportTrack("ship", "thrust", true); err != nil {
		t.Fatalf("ExportTrack() error = %v", err)
	}
	if thrust.Value() != before {
		t.Errorf("Value() = %v after export, want %v", thrust.Value(), before)
	}
}

func TestExportAllControls(t *testing.T) {
	s := newExportStudio(DefaultExportOptions())

	got, err := s.ExportAllControls("ship", false)
	if err != nil {
		t.Fatalf("ExportAllControls() error = %v", err)
	}

	want := "\r\n\r\nnew Dictionary<string, SortedDictionary<int, KeyFrame>>()\r\n{\r\n" +
		"    { \"thrust\", new SortedDictionary<int, KeyFrame>() { { 0, new KeyFrame(0f, KeyMode.Linear) }, { 4, new KeyFrame(10f, KeyMode.InQuad) }, } },\r\n" +
		"};\r\n"
	if got != want {
		t.Errorf("ExportAllControls() = %q, want %q", got, want)
	}

	got, err = s.ExportAllControls("ship", true)
	if err != nil {
		t.Fatalf("ExportAllControls(dense) error = %v", err)
	}

	want = "\r\n\r\nnew Dictionary<string, List<float>>()\r\n{\r\n" +
		"    { \"thrust\", new List<float>() { 0f, 2.5f, 5f, 7.5f, 10f, } },\r\n" +
		"};\r\n"
	if got != want {
		t.Errorf("ExportAllControls(dense) = %q, want %q", got, want)
	}
}

func TestExport_Errors(t *testing.T) {
	s := newExportStudio(DefaultExportOptions())

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"missing element", func() error {
			_, err := s.ExportTrack("nope", "thrust", false)
			return err
		}, ErrElementNotFound},
		{"missing control", func() error {
			_, err := s.ExportTrack("ship", "nope", false)
			return err
		}, ErrControlNotFound},
		{"empty track", func() error {
			_, err := s.ExportTrack("ship", "roll", true)
			return err
		}, ErrNoKeyFrames},
		{"all from missing element", func() error {
			_, err := s.ExportAllControls("nope", false)
			return err
		}, ErrElementNotFound},
		{"all without controls", func() error {
			_, err := s.ExportAllControls("empty", true)
			return err
		}, ErrNoControls},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}
