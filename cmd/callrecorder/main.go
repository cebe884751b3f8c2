package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/m1haww/call-recorder-sub000/internal/client"
	"github.com/m1haww/call-recorder-sub000/internal/config"
	"github.com/m1haww/call-recorder-sub000/internal/export"
	"github.com/m1haww/call-recorder-sub000/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	sessions, err := session.NewStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}

	api := client.New(cfg, sessions)
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "register":
		if len(args) < 2 {
			log.Fatalf("usage: callrecorder register <phone> <country> [push-token]")
		}
		if len(args) > 2 {
			if err := sessions.SetPushToken(args[2]); err != nil {
				log.Fatalf("store push token: %v", err)
			}
		}
		userID, err := api.RegisterUser(ctx, args[0], args[1])
		if err != nil {
			log.Fatalf("register: %v", err)
		}
		if err := sessions.SetUserID(userID); err != nil {
			log.Fatalf("store user id: %v", err)
		}
		if err := sessions.SetOnboardingComplete(true); err != nil {
			log.Fatalf("store onboarding flag: %v", err)
		}
		fmt.Printf("registered as %s\n", userID)

	case "profile":
		profile, err := api.LoadUser(ctx)
		if err != nil {
			log.Fatalf("load user: %v", err)
		}
		if profile.UserID == "" {
			fmt.Println("no profile on server (guest)")
			return
		}
		fmt.Printf("user:          %s\n", profile.UserID)
		fmt.Printf("phone:         %s (%s)\n", profile.PhoneNumber, profile.CountryCode)
		fmt.Printf("notifications: %v\n", profile.NotificationsEnabled)

	case "calls":
		calls, err := api.FetchCalls(ctx, requireUserID(sessions))
		if err != nil {
			log.Fatalf("fetch calls: %v", err)
		}
		if len(calls) == 0 {
			fmt.Println("no recordings")
			return
		}
		for _, rec := range calls {
			fmt.Printf("%s  %s -> %s  %ds  recording=%s transcription=%s\n",
				rec.ID, rec.FromPhone, rec.ToPhone, rec.Duration, rec.RecordingStatus, rec.TranscriptionStatus)
		}

	case "transcripts":
		calls, err := api.FetchCalls(ctx, requireUserID(sessions))
		if err != nil {
			log.Fatalf("fetch calls: %v", err)
		}
		for _, rec := range calls {
			if !rec.HasTranscript() {
				continue
			}
			fmt.Printf("%s  %s\n%s\n\n", rec.ID, rec.Title, rec.Transcription)
		}

	case "delete":
		if len(args) < 1 {
			log.Fatalf("usage: callrecorder delete <recording-id>")
		}
		if err := api.DeleteRecording(ctx, args[0], requireUserID(sessions)); err != nil {
			log.Fatalf("delete recording: %v", err)
		}
		fmt.Println("deleted")

	case "delete-all":
		if err := api.DeleteAllRecordings(ctx, requireUserID(sessions)); err != nil {
			log.Fatalf("delete all recordings: %v", err)
		}
		fmt.Println("all recordings deleted")

	case "notifications":
		if len(args) < 1 || (args[0] != "on" && args[0] != "off") {
			log.Fatalf("usage: callrecorder notifications on|off")
		}
		if err := api.UpdateNotificationSettings(ctx, args[0] == "on"); err != nil {
			log.Fatalf("update notifications: %v", err)
		}
		fmt.Printf("notifications %s\n", args[0])

	case "update-phone":
		if len(args) < 2 {
			log.Fatalf("usage: callrecorder update-phone <phone> <country>")
		}
		if err := api.UpdateUserPhoneNumber(ctx, args[0], args[1]); err != nil {
			log.Fatalf("update phone: %v", err)
		}
		fmt.Println("phone number updated")

	case "service-number":
		number, err := api.FetchServicePhoneNumber(ctx)
		if err != nil {
			log.Fatalf("fetch service number: %v", err)
		}
		fmt.Println(number)

	case "export-pdf":
		if len(args) < 1 {
			log.Fatalf("usage: callrecorder export-pdf <recording-id> [out.pdf]")
		}
		exportPDF(ctx, api, sessions, cfg, args)

	case "signout":
		if err := sessions.Clear(); err != nil {
			log.Fatalf("clear session: %v", err)
		}
		fmt.Println("signed out")

	default:
		usage()
		os.Exit(2)
	}
}

func exportPDF(ctx context.Context, api *client.Client, sessions *session.Store, cfg config.Config, args []string) {
	calls, err := api.FetchCalls(ctx, requireUserID(sessions))
	if err != nil {
		log.Fatalf("fetch calls: %v", err)
	}

	for _, rec := range calls {
		if rec.ID != args[0] {
			continue
		}

		outPath := filepath.Join(cfg.DataDir, "pdf", rec.ID+".pdf")
		if len(args) > 1 {
			outPath = args[1]
		}

		if err := export.NewPDFService().GeneratePDF(rec, outPath); err != nil {
			log.Fatalf("generate pdf: %v", err)
		}
		fmt.Printf("wrote %s\n", outPath)
		return
	}

	log.Fatalf("recording %s not found", args[0])
}

func requireUserID(sessions *session.Store) string {
	userID := sessions.UserID()
	if userID == "" {
		log.Fatalf("not registered: run `callrecorder register <phone> <country>` first")
	}
	return userID
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: callrecorder <command> [args]

commands:
  register <phone> <country> [push-token]   register this device
  profile                                   show the server-side profile
  calls                                     list call recordings
  transcripts                               list recordings with transcripts
  delete <recording-id>                     delete one recording
  delete-all                                delete every recording
  notifications on|off                      toggle push notifications
  update-phone <phone> <country>            change the registered number
  service-number                            print the recording-bridge number
  export-pdf <recording-id> [out.pdf]       export a call sheet PDF
  signout                                   clear the local session`)
}
