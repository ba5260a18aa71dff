package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/pstuifzand/tui-annotator/internal/app"
	"github.com/pstuifzand/tui-annotator/internal/config"
	"github.com/pstuifzand/tui-annotator/internal/history"
	"github.com/pstuifzand/tui-annotator/internal/socket"
	"github.com/pstuifzand/tui-annotator/internal/storage"
)

func main() {
	logFile, err := os.Create("tua.log")
	if err != nil {
		log.Fatal(err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	debug := flag.Bool("debug", false, "Enable debug mode (shows key events in status)")
	comment := flag.String("comment", "", "Add a comment to the annotation open in a running tua instance")
	author := flag.String("author", os.Getenv("USER"), "Author of the comment sent with -comment")
	counts := flag.Bool("counts", false, "Print the region counts of a running tua instance")
	noSocket := flag.Bool("no-socket", false, "Do not listen on the control socket")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <task.json|task.yaml>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *comment != "" {
		if err := sendComment(*comment, *author); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Comment added")
		return
	}

	if *counts {
		if err := printCounts(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := app.Options{Socket: !*noSocket}
	if mgr, err := history.NewManager(""); err != nil {
		log.Printf("history disabled: %v", err)
	} else {
		opts.History = mgr
	}
	if mgr, err := storage.NewBackupManager(""); err != nil {
		log.Printf("backups disabled: %v", err)
	} else {
		opts.Backups = mgr
	}

	application, err := app.NewApp(flag.Arg(0), cfg, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *debug {
		application.SetDebugMode(true)
	}

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
		os.Exit(1)
	}
}

func connect() (*socket.Client, error) {
	socketPath, pid, err := socket.FindRunningInstance()
	if err != nil {
		return nil, fmt.Errorf("no running tua instance found: %w", err)
	}
	log.Printf("Found running instance at PID %d: %s", pid, socketPath)

	client, err := socket.NewClient(socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return client, nil
}

// sendComment sends an add_comment command to a running tua instance
func sendComment(text, author string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("comment text cannot be empty")
	}

	client, err := connect()
	if err != nil {
		return err
	}

	response, err := client.SendAddComment(text, author)
	if err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	if !response.Success {
		return fmt.Errorf("server error: %s", response.Message)
	}

	log.Printf("Successfully sent add_comment command: %s", text)
	return nil
}

// printCounts prints the region counts of a running tua instance
func printCounts() error {
	client, err := connect()
	if err != nil {
		return err
	}
	counts, err := client.RegionCount()
	if err != nil {
		return err
	}
	fmt.Printf("%d regions, %d visible, %d hidden\n", counts.Total, counts.Visible, counts.Hidden)
	return nil
}
