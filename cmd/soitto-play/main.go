package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vsariola/soitto"
	"github.com/vsariola/soitto/oto"
	"github.com/vsariola/soitto/smf"
	"github.com/vsariola/soitto/synth"
	"github.com/vsariola/soitto/version"
)

type noteDump struct {
	Frequency float32 `yaml:"frequency"`
	Start     float64 `yaml:"start"`
	Stop      float64 `yaml:"stop"`
	PeakGain  float32 `yaml:"peakgain"`
	Attack    float64 `yaml:"attack"`
	Release   float64 `yaml:"release"`
}

func main() {
	stdout := flag.Bool("s", false, "Do not write files; write to standard output instead.")
	help := flag.Bool("h", false, "Show help.")
	directory := flag.String("o", "", "Directory where to output all files. The directory and its parents are created if needed. By default, everything is placed in the same directory where the original file is.")
	play := flag.Bool("p", false, "Play the input files (default behaviour when no other output is defined).")
	rawOut := flag.Bool("r", false, "Output the rendered audio as .raw file. By default, saves a float32 buffer to disk.")
	wavOut := flag.Bool("w", false, "Output the rendered audio as .wav file. By default, saves a float32 buffer to disk.")
	pcm := flag.Bool("c", false, "Convert audio to 16-bit signed PCM when outputting.")
	yamlOut := flag.Bool("y", false, "Output a .yml summary of the decoded file.")
	notesOut := flag.Bool("n", false, "Output the scheduled note list as a .yml file, instead of rendering sample buffers.")
	sampleRate := flag.Int("rate", 44100, "Sample rate for rendering and playback.")
	waveName := flag.String("wave", "sine", "Waveform to render with. Possible values: sine, square, sawtooth, triangle.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	if !*rawOut && !*wavOut && !*yamlOut && !*notesOut {
		*play = true // if the user gives nothing to output, then the default behaviour is just to play the file
	}
	waveKind, ok := soitto.WaveKindForName(*waveName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown waveform %q\n", *waveName)
		os.Exit(1)
	}
	wave := soitto.Waveform{Kind: waveKind}
	var audioContext soitto.AudioContext
	if *play {
		var err error
		audioContext, err = oto.NewContext(*sampleRate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not acquire oto AudioContext: %v\n", err)
			os.Exit(1)
		}
	}
	process := func(filename string) error {
		output := func(extension string, contents []byte) error {
			if *stdout {
				fmt.Print(string(contents))
				return nil
			}
			dir, name := filepath.Split(filename)
			if *directory != "" {
				dir = *directory
			}
			name = strings.TrimSuffix(name, filepath.Ext(name)) + extension
			f := filepath.Join(dir, name)
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return fmt.Errorf("could not create output directory %v: %v", dir, err)
			}
			if err := os.WriteFile(f, contents, 0644); err != nil {
				return fmt.Errorf("could not write file %v: %v", f, err)
			}
			return nil
		}
		inputBytes, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("could not read file %v: %v", filename, err)
		}
		file, err := smf.Decode(inputBytes)
		if err != nil {
			return fmt.Errorf("could not decode %v: %v", filename, err)
		}
		if *yamlOut {
			contents, err := yaml.Marshal(smf.Summarize(file))
			if err != nil {
				return fmt.Errorf("could not marshal summary: %v", err)
			}
			if err := output(".yml", contents); err != nil {
				return fmt.Errorf("error outputting .yml file: %v", err)
			}
		}
		if *notesOut {
			program := synth.Schedule(file, wave)
			dump := make([]noteDump, 0, len(program.Notes))
			for _, n := range program.Notes {
				dump = append(dump, noteDump{
					Frequency: n.Frequency,
					Start:     n.Start.Seconds(),
					Stop:      n.Stop.Seconds(),
					PeakGain:  n.PeakGain,
					Attack:    n.Attack.Seconds(),
					Release:   n.Release.Seconds(),
				})
			}
			contents, err := yaml.Marshal(dump)
			if err != nil {
				return fmt.Errorf("could not marshal note list: %v", err)
			}
			if err := output(".notes.yml", contents); err != nil {
				return fmt.Errorf("error outputting .notes.yml file: %v", err)
			}
		}
		if !*play && !*rawOut && !*wavOut {
			return nil
		}
		length, buffers := synth.Buffers(file, *sampleRate, wave)
		mix := soitto.Mixdown(buffers, length, *sampleRate)
		if *rawOut {
			raw, err := mix.Raw(*pcm)
			if err != nil {
				return fmt.Errorf("could not generate .raw file: %v", err)
			}
			if err := output(".raw", raw); err != nil {
				return fmt.Errorf("error outputting .raw file: %v", err)
			}
		}
		if *wavOut {
			wav, err := mix.Wav(*pcm)
			if err != nil {
				return fmt.Errorf("could not generate .wav file: %v", err)
			}
			if err := output(".wav", wav); err != nil {
				return fmt.Errorf("error outputting .wav file: %v", err)
			}
		}
		if *play {
			if err := mix.Play(audioContext); err != nil {
				return fmt.Errorf("playback failed: %v", err)
			}
		}
		return nil
	}
	retval := 0
	for _, param := range flag.Args() {
		if info, err := os.Stat(param); err == nil && info.IsDir() {
			files, err := filepath.Glob(filepath.Join(param, "*.mid"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not glob the path %v for mid files: %v\n", param, err)
				retval = 1
				continue
			}
			for _, file := range files {
				if err := process(file); err != nil {
					fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", file, err)
					retval = 1
				}
			}
		} else {
			if err := process(param); err != nil {
				fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", param, err)
				retval = 1
			}
		}
	}
	if audioContext != nil {
		audioContext.Close()
	}
	os.Exit(retval)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Soitto command line utility for playing .mid files.\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
