package main

import (
	"encoding/json"
	"flag"
	"github.com/tarstars/piecewise_constant/golang/piecewise/ndops"
	"github.com/tarstars/piecewise_constant/golang/piecewise/pwc"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
)

func decodeConfig(srcConfig string, out interface{}) {
	file, err := os.Open(srcConfig)
	pwc.HandleError(err)
	defer func() { pwc.HandleError(file.Close()) }()

	decoder := json.NewDecoder(file)
	pwc.HandleError(decoder.Decode(out))
}

type FunctionConfig struct {
	FileNameJumpLocations string `json:"filename_jump_locations"`
	FileNameValues        string `json:"filename_values"`
	Name                  string `json:"name"`
	ThreadsNum            int    `json:"threads_num"`
}

func loadFunction(functionConfig FunctionConfig) *pwc.PiecewiseConstantFunc {
	log.Println("load jump locations from", functionConfig.FileNameJumpLocations)
	jumpLocations, err := pwc.ReadNpy(functionConfig.FileNameJumpLocations)
	pwc.HandleError(err)

	log.Println("load values from", functionConfig.FileNameValues)
	values, err := pwc.ReadNpy(functionConfig.FileNameValues)
	pwc.HandleError(err)

	opts := []pwc.FuncOption{pwc.WithThreadsNum(functionConfig.ThreadsNum)}
	if functionConfig.Name != "" {
		opts = append(opts, pwc.WithName(functionConfig.Name))
	}
	piecewiseFunc, err := pwc.NewPiecewiseConstantFunc(jumpLocations, values, opts...)
	pwc.HandleError(err)
	log.Printf("function with batch shape %v, %d jumps and event shape %v",
		piecewiseFunc.BatchShape(), piecewiseFunc.NumJumps(), piecewiseFunc.EventShape())
	return piecewiseFunc
}

type EvaluateConfig struct {
	FunctionConfig
	FileNameX      string `json:"filename_x"`
	FileNameResult string `json:"filename_result"`
	LeftContinuous *bool  `json:"left_continuous"`
}

func evaluate(srcConfig string) {
	var evaluateConfig EvaluateConfig
	decodeConfig(srcConfig, &evaluateConfig)

	piecewiseFunc := loadFunction(evaluateConfig.FunctionConfig)
	x, err := pwc.ReadNpy(evaluateConfig.FileNameX)
	pwc.HandleError(err)

	leftContinuous := true
	if evaluateConfig.LeftContinuous != nil {
		leftContinuous = *evaluateConfig.LeftContinuous
	}
	log.Println("evaluate, left continuous =", leftContinuous)
	result, err := piecewiseFunc.Call(x, leftContinuous)
	pwc.HandleError(err)
	pwc.HandleError(pwc.WriteNpy(evaluateConfig.FileNameResult, result))
}

type IntegrateConfig struct {
	FunctionConfig
	FileNameX1     string `json:"filename_x1"`
	FileNameX2     string `json:"filename_x2"`
	FileNameResult string `json:"filename_result"`
}

func integrate(srcConfig string) {
	var integrateConfig IntegrateConfig
	decodeConfig(srcConfig, &integrateConfig)

	piecewiseFunc := loadFunction(integrateConfig.FunctionConfig)
	x1, err := pwc.ReadNpy(integrateConfig.FileNameX1)
	pwc.HandleError(err)
	x2, err := pwc.ReadNpy(integrateConfig.FileNameX2)
	pwc.HandleError(err)

	log.Println("integrate")
	result, err := piecewiseFunc.Integrate(x1, x2)
	pwc.HandleError(err)
	pwc.HandleError(pwc.WriteNpy(integrateConfig.FileNameResult, result))
}

type FindIntervalConfig struct {
	FileNameIntervalLowerXs string `json:"filename_interval_lower_xs"`
	FileNameQueryXs         string `json:"filename_query_xs"`
	FileNameResult          string `json:"filename_result"`
	LastIntervalClosed      bool   `json:"last_interval_closed"`
	ThreadsNum              int    `json:"threads_num"`
}

func findInterval(srcConfig string) {
	var findIntervalConfig FindIntervalConfig
	decodeConfig(srcConfig, &findIntervalConfig)

	intervalLowerXs, err := pwc.ReadNpy(findIntervalConfig.FileNameIntervalLowerXs)
	pwc.HandleError(err)
	queryXs, err := pwc.ReadNpy(findIntervalConfig.FileNameQueryXs)
	pwc.HandleError(err)

	log.Println("find interval index, last interval closed =", findIntervalConfig.LastIntervalClosed)
	result, err := pwc.FindIntervalIndex(queryXs, intervalLowerXs, findIntervalConfig.LastIntervalClosed,
		ndops.WithThreadsNum(findIntervalConfig.ThreadsNum))
	pwc.HandleError(err)
	pwc.HandleError(pwc.WriteNpy(findIntervalConfig.FileNameResult, result))
}

type GraphConfig struct {
	FunctionConfig
	FigureType        string `json:"figure_type"`
	PicturesDirectory string `json:"pictures_directory"`
	DumpPrefix        string `json:"dump_prefix"`
}

func graph(srcConfig string) {
	var graphConfig GraphConfig
	decodeConfig(srcConfig, &graphConfig)

	piecewiseFunc := loadFunction(graphConfig.FunctionConfig)
	log.Printf("render %d rows into %s", piecewiseFunc.NumRows(), graphConfig.PicturesDirectory)
	pwc.HandleError(piecewiseFunc.RenderSegments(graphConfig.DumpPrefix, graphConfig.FigureType, graphConfig.PicturesDirectory))
}

func main() {
	runMode := flag.String("mode", "evaluate", "you can select either 'evaluate', 'integrate', 'find_interval' or 'graph' modes")
	config := flag.String("config", "piecewise_config.json", "a config file for the run of the program")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")

	flag.Parse()

	modeFunc, ok := map[string]func(string){
		"evaluate":      evaluate,
		"integrate":     integrate,
		"find_interval": findInterval,
		"graph":         graph,
	}[*runMode]
	if !ok {
		log.Fatalf("unknown mode %q", *runMode)
	}
	modeFunc(*config)

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		pwc.HandleError(err)
		defer func() { pwc.HandleError(f.Close()) }()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
	}
}
