package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

// Posts a sample power CSV against a running instance. Handy for smoke
// testing the upload path end to end:
//
//	go run ./cmd/seeder -event <eventID> -phase <phaseID>

const sampleCSV = `PlayerName,Power
IceWolf,"52,300,100"
NorthKing,48120500
Valkyrie,"47,988,200"
FrostGiant,39201000
`

func main() {
	apiURL := flag.String("url", "http://localhost:8080", "base URL of the API")
	eventID := flag.String("event", "", "event id to upload into")
	phaseID := flag.String("phase", "", "phase id to upload into")
	token := flag.String("token", os.Getenv("UPLOAD_TOKEN"), "upload bearer token")
	file := flag.String("file", "", "CSV file to upload (default: built-in sample)")
	flag.Parse()

	if *eventID == "" || *phaseID == "" {
		log.Fatal("both -event and -phase are required")
	}

	csvData := []byte(sampleCSV)
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("read %s: %v", *file, err)
		}
		csvData = data
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "stats.csv")
	if err != nil {
		log.Fatalf("build form: %v", err)
	}
	if _, err := fw.Write(csvData); err != nil {
		log.Fatalf("write form: %v", err)
	}
	mw.Close()

	url := fmt.Sprintf("%s/api/v1/events/%s/phases/%s/uploads/power", *apiURL, *eventID, *phaseID)
	req, err := http.NewRequest("POST", url, &buf)
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if *token != "" {
		req.Header.Set("Authorization", "Bearer "+*token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("send request: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %s\n", resp.Status)
	fmt.Printf("Response: %s\n", string(body))
}
