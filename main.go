// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/CrawX/go-mail-triage/classifier"
	"github.com/CrawX/go-mail-triage/config"
	"github.com/CrawX/go-mail-triage/domain"
	"github.com/CrawX/go-mail-triage/gmailconnection"
	"github.com/CrawX/go-mail-triage/imapconnection"
	"github.com/CrawX/go-mail-triage/log"
	"github.com/CrawX/go-mail-triage/notifier"
	"github.com/CrawX/go-mail-triage/persistence"
	"github.com/CrawX/go-mail-triage/triage"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

func main() {
	log.InitLogging("info")
	logger := log.Logger(log.LOG_MAIN)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.WithField("error", err).Warn("Could not load .env file")
	}

	conf, err := config.ReadConfig(config.Filename())
	if err != nil {
		logger.WithField("error", err).Fatal("Could not load config")
	}

	if conf.Loglevel != nil {
		log.SetLogLevel(*conf.Loglevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var blobs domain.BlobStore
	switch conf.State.Backend {
	case config.StateBackendGcs:
		opts := []option.ClientOption{}
		if len(conf.State.CredentialsFile) > 0 {
			opts = append(opts, option.WithCredentialsFile(conf.State.CredentialsFile))
		}
		blobs, err = persistence.NewGcsBlobStore(ctx, conf.State.Bucket, opts...)
		if err != nil {
			logger.WithField("error", err).Fatal("Could not connect to cloud storage")
		}
	case config.StateBackendSqlite:
		s, err := persistence.NewSqliteBlobStore(conf.State.Database)
		if err != nil {
			logger.WithField("error", err).Fatal("Could not connect to database")
		}
		defer s.Close()
		blobs = s
	}
	state := persistence.NewStateStore(blobs, conf.State.Object)

	var mailbox domain.MailboxReader
	if conf.Gmail != nil {
		auth, err := gmailconnection.TokenSourceOption(ctx, conf.Gmail.CredentialsFile, conf.Gmail.TokenFile)
		if err != nil {
			logger.WithField("error", err).Fatal("Could not load gmail credentials")
		}
		mailbox, err = gmailconnection.NewGmailConnection(ctx, conf.Gmail.Label, auth)
		if err != nil {
			logger.WithField("error", err).Fatal("Could not start gmail connector")
		}
	} else {
		imapConn, err := imapconnection.NewImapConnection(conf.Imap.Host, conf.Imap.User, conf.Imap.Password)
		if err != nil {
			logger.WithField("error", err).Fatal("Could not start imap connector")
		}
		defer imapConn.Close()

		folder := conf.Imap.Folder
		if len(folder) == 0 {
			folder = "INBOX"
		}
		_, err = imapConn.Select(folder)
		if err != nil {
			logger.WithFields(logrus.Fields{"folder": folder, "error": err}).Fatal("Could not select folder")
		}
		mailbox = imapconnection.NewMailbox(imapConn)
	}

	completer := classifier.NewOpenAICompleter(conf.OpenAI.ApiKey, conf.OpenAI.BaseURL, conf.OpenAI.Model)
	llm := classifier.NewLLMClassifier(completer, conf.Interest)

	notifiers := notifier.Multi{}
	if conf.Telegram != nil {
		t, err := notifier.NewTelegram(conf.Telegram.Token, conf.Telegram.ChatId, conf.Telegram.Endpoint)
		if err != nil {
			logger.WithField("error", err).Fatal("Could not start telegram notifier")
		}
		notifiers = append(notifiers, t)
	}
	if conf.SendGrid != nil {
		s, err := notifier.NewSendGrid(conf.SendGrid.ApiKey, conf.SendGrid.Host, conf.SendGrid.From, conf.SendGrid.To, conf.SendGrid.Subject)
		if err != nil {
			logger.WithField("error", err).Fatal("Could not start sendgrid notifier")
		}
		notifiers = append(notifiers, s)
	}

	configs := []triage.ConfigFunc{triage.MaxMessages(conf.MaxMessages)}
	if conf.DryRun {
		configs = append(configs, triage.DryRun())
	}
	if conf.SuppressFailureNotifications {
		configs = append(configs, triage.SuppressFailureNotifications())
	}
	if conf.Checkpoint {
		configs = append(configs, triage.Checkpoint())
	}

	mt, err := triage.NewMailTriage(state, mailbox, llm, notifiers, configs...)
	if err != nil {
		logger.WithField("error", err).Fatal("Could not start mail triage")
	}

	logger.WithFields(logrus.Fields{"state": conf.State.Backend, "maxmessages": conf.MaxMessages, "dryrun": conf.DryRun}).Info("Triaging mails")
	if conf.DryRun {
		logger.Warn("Skipping notifications and state updates due to dry-run")
	}

	stats, err := mt.Run(ctx)
	if err != nil {
		logger.WithFields(logrus.Fields{"error": err, "classified": stats.Classified}).Fatal("Mail triage failed")
	}
	logger.WithFields(logrus.Fields{"classified": stats.Classified, "notified": stats.Notified, "failed": stats.Failed}).Info("Mail triage done")
}
