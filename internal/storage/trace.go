package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/pvsim/internal/sim"
)

// Sample is one recorded tick.
type Sample struct {
	Tick          int     `json:"tick"`
	Time          float64 `json:"time"`
	HandleX       float64 `json:"handle_x"`
	HandleY       float64 `json:"handle_y"`
	Volume        float64 `json:"volume"`
	Pressure      float64 `json:"pressure"`
	Temperature   float64 `json:"temperature"`
	Energy        float64 `json:"energy"`
	Work          float64 `json:"work"`
	Heat          float64 `json:"heat"`
	KineticEnergy float64 `json:"kinetic_energy"`
	Relocated     int     `json:"relocated"`
}

var csvHeader = []string{
	"tick", "time", "handle_x", "handle_y", "volume", "pressure",
	"temperature", "energy", "work", "heat", "kinetic_energy", "relocated",
}

func SampleFromFrame(f *sim.Frame) Sample {
	return Sample{
		Tick:          f.Tick,
		Time:          f.Time,
		HandleX:       f.Handle[0],
		HandleY:       f.Handle[1],
		Volume:        f.State.Volume,
		Pressure:      f.State.Pressure,
		Temperature:   f.State.Temperature,
		Energy:        f.State.InternalEnergy,
		Work:          f.Work,
		Heat:          f.State.InternalEnergy - f.Work,
		KineticEnergy: f.KineticEnergy,
		Relocated:     f.Relocated,
	}
}

// Recorder is an observer that keeps one Sample per tick.
type Recorder struct {
	samples []Sample
}

func NewRecorder() *Recorder {
	return &Recorder{samples: make([]Sample, 0)}
}

func (r *Recorder) OnFrame(f *sim.Frame) {
	r.samples = append(r.samples, SampleFromFrame(f))
}

func (r *Recorder) Samples() []Sample { return r.samples }

func WriteCSV(w io.Writer, trace []Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range trace {
		row := []string{
			strconv.Itoa(s.Tick),
			formatFloat(s.Time),
			formatFloat(s.HandleX),
			formatFloat(s.HandleY),
			formatFloat(s.Volume),
			formatFloat(s.Pressure),
			formatFloat(s.Temperature),
			formatFloat(s.Energy),
			formatFloat(s.Work),
			formatFloat(s.Heat),
			formatFloat(s.KineticEnergy),
			strconv.Itoa(s.Relocated),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseRow(record []string) (Sample, error) {
	if len(record) != len(csvHeader) {
		return Sample{}, fmt.Errorf("expected %d fields, got %d", len(csvHeader), len(record))
	}

	ints := make([]int, 2)
	for i, col := range []int{0, 11} {
		v, err := strconv.Atoi(record[col])
		if err != nil {
			return Sample{}, err
		}
		ints[i] = v
	}

	floats := make([]float64, 10)
	for i := range floats {
		v, err := strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return Sample{}, err
		}
		floats[i] = v
	}

	return Sample{
		Tick:          ints[0],
		Time:          floats[0],
		HandleX:       floats[1],
		HandleY:       floats[2],
		Volume:        floats[3],
		Pressure:      floats[4],
		Temperature:   floats[5],
		Energy:        floats[6],
		Work:          floats[7],
		Heat:          floats[8],
		KineticEnergy: floats[9],
		Relocated:     ints[1],
	}, nil
}

// ExportData is the JSON form of a stored run.
type ExportData struct {
	Run     RunMetadata `json:"run"`
	Samples []Sample    `json:"samples"`
}

func WriteJSON(w io.Writer, meta RunMetadata, trace []Sample) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: meta, Samples: trace})
}
