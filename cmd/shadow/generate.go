package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"github.com/limaJavier/shadowsearch/internal/problem"
	"github.com/spf13/cobra"
)

var (
	generateVariables   int
	generateConstraints int
	generateDomain      int
	generateSeed        uint64
	generateOut         string

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Write a random satisfiable problem",
		Run: func(cmd *cobra.Command, _ []string) {
			random := rand.New(rand.NewPCG(generateSeed, generateSeed))
			if !cmd.Flags().Changed("seed") {
				random = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
			}

			generated, _ := problem.Generate(generateVariables, generateConstraints, generateDomain, random)
			problemJson, err := json.MarshalIndent(generated, "", "  ")
			if err != nil {
				log.Fatalf("[ERROR] an error occurred while building output json: %v", err)
			}

			if generateOut == "" {
				fmt.Println(string(problemJson))
			} else if err := os.WriteFile(generateOut, problemJson, 0666); err != nil {
				log.Fatalf("[ERROR] an error occurred while writing to the output file: %v", err)
			}
		},
	}
)

func init() {
	generateCmd.Flags().IntVar(&generateVariables, "variables", 4, "Number of binder variables")
	generateCmd.Flags().IntVar(&generateConstraints, "constraints", 4, "Number of constraints, each one adds an auxiliary variable")
	generateCmd.Flags().IntVar(&generateDomain, "domain", 9, "Upper bound of every binder domain, lower bound is 0")
	generateCmd.Flags().Uint64Var(&generateSeed, "seed", 0, "Random seed; a random one is used if not set")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Path to the output file; if empty, it'll be written into the Standard Output")
}
