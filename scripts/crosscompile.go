package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

func main() {
	version := "0.1.0"
	executionFile := "ripeq"

	gitRootPath, err := getGitRootPath()
	if err != nil {
		log.Fatalf("Error getting Git root path: %v", err)
	}

	fmt.Println("Performing tests on all modules...")
	if err := runCommand("go", "test", "./..."); err != nil {
		fmt.Println("Tests on all modules failed.")
		fmt.Println("Press Enter to continue compilation or CTRL+C to abort.")
		bufio.NewReader(os.Stdin).ReadBytes('\n')
	} else {
		fmt.Println("Tests on all modules passed.")
	}

	binariesPath := filepath.Join(gitRootPath, "binaries", version)
	if err := os.MkdirAll(binariesPath, os.ModePerm); err != nil {
		log.Fatalf("Error creating binaries directory: %v", err)
	}

	latestLink := filepath.Join(gitRootPath, "binaries", "latest")
	os.Remove(latestLink)
	if err := os.Symlink(version, latestLink); err != nil {
		log.Printf("Warning: Failed to create symlink 'latest': %v", err)
	}

	osList := []string{"darwin", "freebsd", "linux", "netbsd", "openbsd", "windows"}
	archList := []string{"amd64", "386", "arm", "arm64", "riscv64"}

	for _, osName := range osList {
		for _, arch := range archList {
			targetOSName := osName
			execFileName := executionFile

			if osName == "windows" {
				execFileName += ".exe"
			} else if osName == "darwin" {
				targetOSName = "mac"
			}

			outputDir := filepath.Join(binariesPath, targetOSName, arch)
			if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
				log.Printf("Error creating output directory %s: %v", outputDir, err)
				continue
			}

			outputPath := filepath.Join(outputDir, execFileName)

			buildCmd := exec.Command("go", "build",
				"-ldflags", fmt.Sprintf("-X %s=%s", "github.com/rootsektor/ripe-api-query-tool/cmd.version", version),
				"-o", outputPath, gitRootPath)
			buildCmd.Env = append(os.Environ(),
				"GOOS="+osName,
				"GOARCH="+arch,
			)

			if err := buildCmd.Run(); err != nil {
				// Unsupported GOOS/GOARCH combination; drop the empty directory.
				if err := os.RemoveAll(outputDir); err != nil {
					log.Printf("Error removing output directory %s: %v", outputDir, err)
				}
				continue
			}

			if err := os.Chmod(outputPath, 0755); err != nil {
				log.Printf("Error setting permissions on %s: %v", outputPath, err)
			}
			fmt.Printf("Successfully built %s for %s/%s\n", execFileName, osName, arch)
		}
	}
}

// Helper function to run a command
func runCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Helper function to get the Git root path
func getGitRootPath() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}
