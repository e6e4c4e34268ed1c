package mcfit

import (
	"encoding/json"
	"os"
)

type OverflowPolicy string

const (
	// OverflowDrop silently skips signals past the readout window.
	OverflowDrop OverflowPolicy = "drop"
	// OverflowFail aborts event generation on the first overflowing signal.
	OverflowFail OverflowPolicy = "fail"
)

type Configuration struct {
	Verbosity int `json:"verbosity"`

	// Detector parameters
	Vd              [3]float64 `json:"vd"`    // drift velocity, cm/us
	Clock           float64    `json:"clock"` // sampling clock, MHz
	Shape           float64    `json:"shape"` // pulse shaping time, us
	MassNum         uint       `json:"mass_num"`
	Ioniz           float64    `json:"ioniz"` // ionization potential, eV
	MicromegasGain  float64    `json:"micromegas_gain"`
	ElectronicsGain float64    `json:"electronics_gain"`
	Tilt            float64    `json:"tilt"`       // detector tilt, radians
	DiffSigma       float64    `json:"diff_sigma"` // transverse diffusion, m per sqrt(m)

	Overflow OverflowPolicy `json:"overflow_policy"`

	// Pad plane: read from DB unless NoDB is set, in which case a uniform
	// rectangular plane is built from the geometry below.
	NoDB      bool    `json:"no_db"`
	Host      string  `json:"host"`
	User      string  `json:"user"`
	Passwd    string  `json:"pass"`
	DBName    string  `json:"dbname"`
	RunNumber int     `json:"run_number"`
	PadPitch  float64 `json:"pad_pitch"` // m, rectangular plane only
	PadCols   int     `json:"pad_cols"`
	PadRows   int     `json:"pad_rows"`

	// I/O
	FileIn   string `json:"file_in"`
	FileOut  string `json:"file_out"`
	PlotDir  string `json:"plot_dir"`
	TBOffset int    `json:"tb_offset"` // time bucket offset applied by uncalibration

	// Reference tracker (fitter only)
	DeDx          float64 `json:"dedx"`       // MeV/m
	TrackStep     float64 `json:"track_step"` // m
	ChamberLength float64 `json:"chamber_length"`

	// Minimizer
	NumWorkers int       `json:"num_workers"`
	NumIters   uint      `json:"num_iters"`
	NumPts     uint      `json:"num_pts"`
	RedFactor  float64   `json:"red_factor"`
	Ctr0       []float64 `json:"ctr0"`
	Sigma0     []float64 `json:"sigma0"`
	ParamMins  []float64 `json:"param_mins"`
	ParamMaxes []float64 `json:"param_maxes"`
	Seed       uint64    `json:"seed"`
}

var configuration Configuration

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}

func LoadConfiguration(filename string) (Configuration, error) {
	config := Configuration{
		Overflow:   OverflowDrop,
		NumWorkers: 1,
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	return config, err
}
