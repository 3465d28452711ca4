package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mass-sign-client/internal/config"
	"mass-sign-client/internal/domain"
	"mass-sign-client/internal/metrics"
	"mass-sign-client/internal/service"
)

const authWaitTimeout = 15 * time.Second

// signCommand drives the whole workflow headlessly for scripted runs.
func signCommand() *cobra.Command {
	var (
		cuil     string
		password string
		pin      string
		otp      string
	)

	cmd := &cobra.Command{
		Use:   "sign --cuil CUIL --password PASSWORD --pin PIN --otp CODE file...",
		Short: "Sign a batch of PDF files in one run",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := config.NewContainer()
			if err != nil {
				return err
			}
			defer container.Workflow.Close()

			metrics.Init()
			return runSign(container, cuil, password, pin, otp, args)
		},
	}

	cmd.Flags().StringVar(&cuil, "cuil", "", "Operator CUIL (11 digits)")
	cmd.Flags().StringVar(&password, "password", "", "Signing service password")
	cmd.Flags().StringVar(&pin, "pin", "", "Token PIN")
	cmd.Flags().StringVar(&otp, "otp", "", "One-time code (6 digits)")
	cmd.MarkFlagRequired("cuil")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("pin")
	cmd.MarkFlagRequired("otp")

	return cmd
}

func runSign(container *config.Container, cuil, password, pin, otp string, paths []string) error {
	workflow := container.Workflow

	candidates := make([]domain.Document, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("could not read %s: %w", path, err)
		}
		candidates = append(candidates, domain.Document{
			Name:      filepath.Base(path),
			MediaType: mediaTypeByExtension(path),
			Size:      int64(len(content)),
			Content:   content,
		})
	}

	added, rejected := workflow.AddFiles(candidates)
	for _, rej := range rejected {
		fmt.Fprintf(os.Stderr, "rejected %s: %s\n", rej.Name, rej.Reason)
	}
	if len(added) == 0 {
		return fmt.Errorf("no file was accepted")
	}
	fmt.Printf("loaded %d of %d files\n", len(added), len(paths))

	workflow.SetCUIL(cuil)
	workflow.SetPassword(password)
	workflow.SetPIN(pin)

	auth, err := waitForAuthorization(workflow)
	if err != nil {
		return err
	}
	if auth.Account != nil {
		fmt.Printf("authorized as %s\n", auth.Account.ResponsibleName)
	}

	errs, err := workflow.RequestSign()
	if err != nil {
		return err
	}
	if !errs.Empty() {
		return fmt.Errorf("form incomplete: %s", strings.Join(errs.Fields(), ", "))
	}

	if err := workflow.ConfirmOTP(context.Background(), otp); err != nil {
		return err
	}

	if err := waitForCompletion(workflow); err != nil {
		return err
	}

	snap := workflow.Snapshot()
	fmt.Printf("signed %d files", snap.Completion.TotalProcessed)
	if snap.Completion.OutputPath != "" {
		fmt.Printf(", output in %s", snap.Completion.OutputPath)
	}
	fmt.Println()

	return workflow.Finish(context.Background())
}

// waitForAuthorization blocks until the CUIL check settles.
func waitForAuthorization(workflow *service.Workflow) (domain.AuthorizationResult, error) {
	deadline := time.Now().Add(authWaitTimeout)
	for {
		auth := workflow.Snapshot().Authorization
		if auth.Settled() {
			switch auth.State {
			case domain.AuthAuthorized:
				return auth, nil
			case domain.AuthDenied:
				return auth, fmt.Errorf("access denied: %s", auth.Reason)
			default:
				return auth, fmt.Errorf("authorization check failed: %s", auth.Reason)
			}
		}
		if time.Now().After(deadline) {
			return auth, fmt.Errorf("authorization check timed out")
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// waitForCompletion polls the snapshot until the job ends, echoing progress
// transitions to stdout.
func waitForCompletion(workflow *service.Workflow) error {
	lastLine := ""
	for {
		snap := workflow.Snapshot()
		switch snap.Phase {
		case domain.PhaseCompleted:
			return nil
		case domain.PhaseIdle:
			for i := len(snap.Notices) - 1; i >= 0; i-- {
				if snap.Notices[i].Level == domain.NoticeFailure {
					return fmt.Errorf("signing failed: %s", snap.Notices[i].Message)
				}
			}
			return fmt.Errorf("signing failed")
		}

		if snap.Progress.Visible && snap.Progress.Total > 0 {
			line := fmt.Sprintf("%d/%d %s", snap.Progress.Current, snap.Progress.Total, snap.Progress.CurrentFile)
			if line != lastLine {
				fmt.Println(line)
				lastLine = line
			}
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func mediaTypeByExtension(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return domain.PDFMediaType
	}
	return "application/octet-stream"
}
