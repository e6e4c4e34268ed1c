package mcfit

import (
	"fmt"

	"github.com/jmbenlloch/go-hdf5"
)

type EventDataHDF5 struct {
	evt_number int32
	npads      int32
}

type RunInfoHDF5 struct {
	run_number int32
}

type SimParamsHDF5 struct {
	vd_x       float64
	vd_y       float64
	vd_z       float64
	clock      float64
	shape      float64
	mass_num   int32
	ioniz      float64
	mm_gain    float64
	elec_gain  float64
	tilt       float64
	diff_sigma float64
}

type PeakHDF5 struct {
	evt_number  int32
	pad         int32
	center_x    float64
	center_y    float64
	centroid_tb float64
	amplitude   float64
}

func openFile(fname string) (*hdf5.File, error) {
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, &ErrOpenFile{Filename: fname, Err: err}
	}
	return f, nil
}

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	g, err := file.CreateGroup(groupName)
	return g, err
}

func createTable(group *hdf5.Group, name string, datatype interface{}) (*hdf5.Dataset, error) {
	dims := []uint{0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims)}
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, err
	}

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, err
	}
	chunks := []uint{32768}
	plist.SetChunk(chunks)
	plist.SetDeflate(4)

	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		return nil, fmt.Errorf("could not create a dtype for table %q", name)
	}

	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		return nil, err
	}
	return dset, nil
}

func createArray(group *hdf5.Group, name string, dims []uint, maxDims []uint, chunks []uint) (*hdf5.Dataset, error) {
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, err
	}

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, err
	}
	plist.SetChunk(chunks)
	plist.SetDeflate(4)

	dset, err := group.CreateDatasetWith(name, hdf5.T_NATIVE_DOUBLE, fileSpace, plist)
	if err != nil {
		return nil, err
	}
	return dset, nil
}

func create2dArray(group *hdf5.Group, name string, nSamples int) (*hdf5.Dataset, error) {
	dims := []uint{0, 0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims), uint(nSamples)}
	chunks := []uint{1, uint(nSamples)}
	return createArray(group, name, dims, maxDims, chunks)
}

func create3dArray(group *hdf5.Group, name string, nPads int, nSamples int) (*hdf5.Dataset, error) {
	dims := []uint{0, 0, 0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims), uint(nPads), uint(nSamples)}
	chunks := []uint{1, 50, uint(nSamples)}
	return createArray(group, name, dims, maxDims, chunks)
}

func writeEntryToTable[T any](dataset *hdf5.Dataset, data T) error {
	array := []T{data}
	return writeArrayToTable(dataset, &array)
}

func writeArrayToTable[T any](dataset *hdf5.Dataset, data *[]T) error {
	length := uint(len(*data))
	if length == 0 {
		return nil
	}
	dims := []uint{length}
	dataspace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return err
	}
	defer dataspace.Close()

	dimsGot, _, err := dataset.Space().SimpleExtentDims()
	if err != nil {
		return err
	}
	entriesInFile := dimsGot[0]
	newsize := []uint{entriesInFile + length}
	dataset.Resize(newsize)
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{entriesInFile}
	count := []uint{length}
	filespace.SelectHyperslab(start, nil, count, nil)

	return dataset.WriteSubset(data, dataspace, filespace)
}

func write2dArray(dataset *hdf5.Dataset, data *[]float64) error {
	dimsGot, maxdimsGot, err := dataset.Space().SimpleExtentDims()
	if err != nil {
		return err
	}
	entriesInFile := dimsGot[0]
	nSamples := maxdimsGot[1]
	newsize := []uint{entriesInFile + 1, nSamples}
	dataset.Resize(newsize)
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{entriesInFile, 0}
	count := []uint{1, nSamples}
	filespace.SelectHyperslab(start, nil, count, nil)

	dataspace, err := hdf5.CreateSimpleDataspace(count, nil)
	if err != nil {
		return err
	}
	defer dataspace.Close()

	return dataset.WriteSubset(data, dataspace, filespace)
}

func write3dArray(dataset *hdf5.Dataset, data *[]float64) error {
	dimsGot, maxdimsGot, err := dataset.Space().SimpleExtentDims()
	if err != nil {
		return err
	}
	entriesInFile := dimsGot[0]
	nPads := maxdimsGot[1]
	nSamples := maxdimsGot[2]
	newsize := []uint{entriesInFile + 1, nPads, nSamples}
	dataset.Resize(newsize)
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{entriesInFile, 0, 0}
	count := []uint{1, nPads, nSamples}
	filespace.SelectHyperslab(start, nil, count, nil)

	dataspace, err := hdf5.CreateSimpleDataspace(count, nil)
	if err != nil {
		return err
	}
	defer dataspace.Close()

	return dataset.WriteSubset(data, dataspace, filespace)
}
