package mcfit

import (
	"errors"
	"fmt"

	"github.com/jmbenlloch/go-hdf5"
	"gonum.org/v1/gonum/mat"
)

// SimEvent bundles the outputs of one simulated readout for persistence.
type SimEvent struct {
	EventID uint32
	Signals Event
	Peaks   *mat.Dense // peaks table, may be nil
	Mesh    []float64
	Hits    []float64
}

// Writer persists simulated events to an HDF5 file: per-pad signals, mesh
// signals, hit patterns and the peaks table. The pad axis of the signal
// array is fixed by the pads of the first event written; later events only
// contribute signals on those pads, everything else is retained through the
// mesh and the hit pattern.
type Writer struct {
	File         *hdf5.File
	Filename     string
	FirstEvt     bool
	RunGroup     *hdf5.Group
	SimGroup     *hdf5.Group
	EventTable   *hdf5.Dataset
	RunInfoTable *hdf5.Dataset
	ParamsTable  *hdf5.Dataset
	PeaksTable   *hdf5.Dataset
	PadSignals   *hdf5.Dataset
	MeshSignals  *hdf5.Dataset
	HitPatterns  *hdf5.Dataset
	EvtCounter   int

	padOrder map[uint16]int
	nPads    int
}

func NewWriter(filename string) (*Writer, error) {
	w := &Writer{Filename: filename}

	var err error
	w.File, err = openFile(filename)
	if err != nil {
		return nil, err
	}
	if w.RunGroup, err = createGroup(w.File, "Run"); err != nil {
		return nil, err
	}
	if w.SimGroup, err = createGroup(w.File, "Sim"); err != nil {
		return nil, err
	}
	if w.EventTable, err = createTable(w.RunGroup, "events", EventDataHDF5{}); err != nil {
		return nil, err
	}
	if w.RunInfoTable, err = createTable(w.RunGroup, "runInfo", RunInfoHDF5{}); err != nil {
		return nil, err
	}
	if w.ParamsTable, err = createTable(w.RunGroup, "params", SimParamsHDF5{}); err != nil {
		return nil, err
	}
	if w.PeaksTable, err = createTable(w.SimGroup, "peaks", PeakHDF5{}); err != nil {
		return nil, err
	}
	if w.MeshSignals, err = create2dArray(w.SimGroup, "mesh", NumTBs); err != nil {
		return nil, err
	}
	if w.HitPatterns, err = create2dArray(w.SimGroup, "hits", NumPads); err != nil {
		return nil, err
	}
	return w, nil
}

// WriteRunInfo stores the run number and the generator parameters. Call once
// per file, before the first event.
func (w *Writer) WriteRunInfo(runNumber int, params EventGeneratorParams) error {
	if err := writeEntryToTable(w.RunInfoTable, RunInfoHDF5{run_number: int32(runNumber)}); err != nil {
		return fmt.Errorf("error writing run info: %w", err)
	}
	entry := SimParamsHDF5{
		vd_x:       params.Vd[0],
		vd_y:       params.Vd[1],
		vd_z:       params.Vd[2],
		clock:      params.Clock,
		shape:      params.Shape,
		mass_num:   int32(params.MassNum),
		ioniz:      params.Ioniz,
		mm_gain:    params.MicromegasGain,
		elec_gain:  params.ElectronicsGain,
		tilt:       params.Tilt,
		diff_sigma: params.DiffSigma,
	}
	if err := writeEntryToTable(w.ParamsTable, entry); err != nil {
		return fmt.Errorf("error writing sim params: %w", err)
	}
	return nil
}

func (w *Writer) WriteEvent(evt *SimEvent) error {
	if !w.FirstEvt {
		order := sortedPads(evt.Signals)
		w.padOrder = make(map[uint16]int, len(order))
		for i, pad := range order {
			w.padOrder[pad] = i
		}
		w.nPads = len(order)
		if w.nPads == 0 {
			w.nPads = 1
		}
		var err error
		if w.PadSignals, err = create3dArray(w.SimGroup, "padwf", w.nPads, NumTBs); err != nil {
			return err
		}
		w.FirstEvt = true
	}

	err := writeEntryToTable(w.EventTable, EventDataHDF5{
		evt_number: int32(evt.EventID),
		npads:      int32(len(evt.Signals)),
	})
	if err != nil {
		return fmt.Errorf("error writing event entry: %w", err)
	}

	// Pad signals, zero-filled for pads absent from this event. Pads
	// outside the first event's set only show up in mesh and hits.
	data := make([]float64, w.nPads*NumTBs)
	for pad, sig := range evt.Signals {
		slot, ok := w.padOrder[pad]
		if !ok {
			continue
		}
		copy(data[slot*NumTBs:(slot+1)*NumTBs], sig)
	}
	if err := write3dArray(w.PadSignals, &data); err != nil {
		return fmt.Errorf("error writing pad signals: %w", err)
	}

	mesh := evt.Mesh
	if mesh == nil {
		mesh = make([]float64, NumTBs)
	}
	if err := write2dArray(w.MeshSignals, &mesh); err != nil {
		return fmt.Errorf("error writing mesh signal: %w", err)
	}

	hits := evt.Hits
	if hits == nil {
		hits = make([]float64, NumPads)
	}
	if err := write2dArray(w.HitPatterns, &hits); err != nil {
		return fmt.Errorf("error writing hit pattern: %w", err)
	}

	if evt.Peaks != nil {
		rows, _ := evt.Peaks.Dims()
		entries := make([]PeakHDF5, rows)
		for i := 0; i < rows; i++ {
			entries[i] = PeakHDF5{
				evt_number:  int32(evt.EventID),
				pad:         int32(evt.Peaks.At(i, 4)),
				center_x:    evt.Peaks.At(i, 0),
				center_y:    evt.Peaks.At(i, 1),
				centroid_tb: evt.Peaks.At(i, 2),
				amplitude:   evt.Peaks.At(i, 3),
			}
		}
		if err := writeArrayToTable(w.PeaksTable, &entries); err != nil {
			return fmt.Errorf("error writing peaks table: %w", err)
		}
	}

	w.EvtCounter++
	return nil
}

func (w *Writer) Close() error {
	var errs []error

	if err := w.EventTable.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing event table: %w", err))
	}
	if err := w.RunInfoTable.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing run info table: %w", err))
	}
	if err := w.ParamsTable.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing params table: %w", err))
	}
	if err := w.PeaksTable.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing peaks table: %w", err))
	}
	if w.PadSignals != nil {
		if err := w.PadSignals.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing pad signals: %w", err))
		}
	}
	if err := w.MeshSignals.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing mesh signals: %w", err))
	}
	if err := w.HitPatterns.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing hit patterns: %w", err))
	}
	if err := w.RunGroup.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing run group: %w", err))
	}
	if err := w.SimGroup.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing sim group: %w", err))
	}
	if err := w.File.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing file: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
