package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/contact"
)

var (
	contactName    string
	contactEmail   string
	contactMessage string
	contactConsent bool
)

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a message through the contact form endpoint",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rt := openRuntime()
		defer rt.Close()
		if rt.Contact == nil {
			fatal("Contact form is disabled", errors.New("contact.endpoint is not configured"))
		}

		form := contact.NewForm(rt.Contact)
		defer form.Close()
		form.Fill(contact.Message{Name: contactName, Email: contactEmail, Message: contactMessage}, contactConsent)

		if err := form.Submit(context.Background()); err != nil {
			if text := form.StatusText(); text != "" {
				fmt.Println(text)
			}
			fatal("Failed to send message", err)
		}
		fmt.Println(form.StatusText())
	},
}

func init() {
	rootCmd.AddCommand(contactCmd)
	contactCmd.Flags().StringVar(&contactName, "name", "", "Sender name")
	contactCmd.Flags().StringVar(&contactEmail, "email", "", "Sender email")
	contactCmd.Flags().StringVarP(&contactMessage, "message", "m", "", "Message text")
	contactCmd.Flags().BoolVar(&contactConsent, "consent", false, "Consent to the processing of the data")
}
