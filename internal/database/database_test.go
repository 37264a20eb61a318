// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package database_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gstruct"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/open-edge-platform/comment-highlighter/internal/clock"
	"github.com/open-edge-platform/comment-highlighter/internal/config"
	"github.com/open-edge-platform/comment-highlighter/internal/database"
	"github.com/open-edge-platform/comment-highlighter/internal/database/models"
)

const (
	dbQueryTimeout = 5 * time.Second
)

var db *database.DBService

func newDocument(name, language, content string) *models.Document {
	return &models.Document{Name: name, Language: language, Content: content}
}

var _ = Describe("Database", func() {
	BeforeEach(func() {
		dbConn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"))
		Expect(err).ToNot(HaveOccurred())
		db = &database.DBService{DB: dbConn}
		Expect(database.Migrate(dbConn)).To(Succeed())

		clock.SetFakeClock()
		clock.FakeClock.Set(time.Now())
	})

	AfterEach(func() {
		clock.UnsetFakeClock()

		if db == nil {
			return
		}
		db.DB.Exec("DELETE FROM documents")
		dbConn, err := db.DB.DB()
		Expect(err).ToNot(HaveOccurred())
		Expect(dbConn.Close()).To(Succeed())
	})

	Describe("Connection", func() {
		It("Fails with an unsupported driver", func() {
			_, err := database.ConnectDB(config.DatabaseConfig{Driver: "mysql"})
			Expect(err).To(MatchError(ContainSubstring(`unsupported database driver "mysql"`)))
		})

		It("Connects to sqlite", func() {
			conn, err := database.ConnectDB(config.DatabaseConfig{Driver: "sqlite", DSN: "file::memory:"})
			Expect(err).ToNot(HaveOccurred())
			sqlDB, err := conn.DB()
			Expect(err).ToNot(HaveOccurred())
			Expect(sqlDB.Close()).To(Succeed())
		})
	})

	Describe("Documents", func() {
		Context("With no documents", func() {
			It("Gets an empty list", func() {
				ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
				defer cancel()

				docs, err := db.ListDocuments(ctx)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(docs).To(BeEmpty())
			})

			It("Fails to get a document", func() {
				ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
				defer cancel()

				doc, err := db.GetDocument(ctx, uuid.New())
				Expect(err).To(MatchError(gorm.ErrRecordNotFound))
				Expect(doc).To(BeNil())
			})

			It("Fails to delete a document", func() {
				ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
				defer cancel()

				Expect(db.DeleteDocument(ctx, uuid.New())).To(MatchError(gorm.ErrRecordNotFound))
			})

			It("Gets no pending documents", func() {
				ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
				defer cancel()

				docs, err := db.GetPendingDocuments(ctx, uuid.New(), 5)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(docs).To(BeEmpty())
			})

			It("Fails to complete a document", func() {
				ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
				defer cancel()

				Expect(db.SetDocumentAnalyzed(ctx, uuid.New(), models.DocumentSummary{})).To(MatchError(gorm.ErrRecordNotFound))
				Expect(db.SetDocumentFailed(ctx, uuid.New())).To(MatchError(gorm.ErrRecordNotFound))
			})
		})

		Context("With documents stored", func() {
			var first, second, third *models.Document

			BeforeEach(func() {
				ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
				defer cancel()

				first = newDocument("HelloWorld.java", "java", "/** doc */ class HelloWorld {}")
				second = newDocument("sample.py", "python", "# comment\nprint('x')")
				third = newDocument("sample.c", "c", "int main() { return 0; }")
				for _, doc := range []*models.Document{first, second, third} {
					Expect(db.CreateDocument(ctx, doc)).To(Succeed())
					clock.FakeClock.Add(time.Second)
				}
			})

			It("Creates documents in pending state", func() {
				Expect(first.UUID).ToNot(Equal(uuid.Nil))
				Expect(first.State).To(Equal(models.DocumentPending))
				Expect(second.CreationDate).To(BeTemporally(">", first.CreationDate))
			})

			It("Gets a document with its content", func() {
				ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
				defer cancel()

				doc, err := db.GetDocument(ctx, second.UUID)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(doc).To(PointTo(MatchFields(IgnoreExtras, Fields{
					"UUID":     Equal(second.UUID),
					"Name":     Equal("sample.py"),
					"Language": Equal("python"),
					"Content":  Equal("# comment\nprint('x')"),
					"State":    Equal(models.DocumentPending),
				})))
			})

			It("Lists documents in creation order without their content", func() {
				ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
				defer cancel()

				docs, err := db.ListDocuments(ctx)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(docs).To(HaveLen(3))
				Expect(docs[0].UUID).To(Equal(first.UUID))
				Expect(docs[1].UUID).To(Equal(second.UUID))
				Expect(docs[2].UUID).To(Equal(third.UUID))
				for _, doc := range docs {
					Expect(doc.Content).To(BeEmpty())
				}
			})

			It("Deletes a document", func() {
				ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
				defer cancel()

				Expect(db.DeleteDocument(ctx, first.UUID)).To(Succeed())

				_, err := db.GetDocument(ctx, first.UUID)
				Expect(err).To(MatchError(gorm.ErrRecordNotFound))

				docs, err := db.ListDocuments(ctx)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(docs).To(HaveLen(2))
			})

			It("Takes pending documents oldest first up to the given count", func() {
				ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
				defer cancel()

				owner := uuid.New()
				docs, err := db.GetPendingDocuments(ctx, owner, 2)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(docs).To(HaveLen(2))
				Expect(docs[0].UUID).To(Equal(first.UUID))
				Expect(docs[1].UUID).To(Equal(second.UUID))
				Expect(docs[0].State).To(Equal(models.DocumentTaken))
				Expect(docs[0].Content).ToNot(BeEmpty())

				stored, err := db.GetDocument(ctx, first.UUID)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(stored.State).To(Equal(models.DocumentTaken))
				Expect(stored.OwnerUUID).To(PointTo(Equal(owner)))

				// Taken documents are not handed out twice.
				docs, err = db.GetPendingDocuments(ctx, uuid.New(), 5)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(docs).To(HaveLen(1))
				Expect(docs[0].UUID).To(Equal(third.UUID))
			})

			It("Stores the analysis of a taken document", func() {
				ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
				defer cancel()

				_, err := db.GetPendingDocuments(ctx, uuid.New(), 3)
				Expect(err).ShouldNot(HaveOccurred())

				summary := models.DocumentSummary{Regions: 4, Comments: 1, Warnings: 2, Errors: 3}
				Expect(db.SetDocumentAnalyzed(ctx, first.UUID, summary)).To(Succeed())
				Expect(db.SetDocumentFailed(ctx, second.UUID)).To(Succeed())

				stored, err := db.GetDocument(ctx, first.UUID)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(stored.State).To(Equal(models.DocumentAnalyzed))
				Expect(stored.DocumentSummary).To(Equal(summary))
				Expect(stored.AnalysisDate).ToNot(BeZero())

				stored, err = db.GetDocument(ctx, second.UUID)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(stored.State).To(Equal(models.DocumentFailed))

				// A completed document cannot be completed again.
				Expect(db.SetDocumentFailed(ctx, first.UUID)).To(MatchError(gorm.ErrRecordNotFound))
			})

			It("Fails to complete a pending document", func() {
				ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
				defer cancel()

				Expect(db.SetDocumentAnalyzed(ctx, first.UUID, models.DocumentSummary{})).To(MatchError(gorm.ErrRecordNotFound))
			})

			It("Resets documents taken for too long", func() {
				ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
				defer cancel()

				_, err := db.GetPendingDocuments(ctx, uuid.New(), 1)
				Expect(err).ShouldNot(HaveOccurred())

				Expect(db.ResetTakenDocumentsExceedingDuration(ctx, time.Minute)).To(Succeed())
				stored, err := db.GetDocument(ctx, first.UUID)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(stored.State).To(Equal(models.DocumentTaken))

				clock.FakeClock.Add(2 * time.Minute)
				Expect(db.ResetTakenDocumentsExceedingDuration(ctx, time.Minute)).To(Succeed())
				stored, err = db.GetDocument(ctx, first.UUID)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(stored.State).To(Equal(models.DocumentPending))
				Expect(stored.OwnerUUID).To(BeNil())
			})

			It("Deletes analyzed documents exceeding the retention time", func() {
				ctx, cancel := context.WithTimeout(context.Background(), dbQueryTimeout)
				defer cancel()

				_, err := db.GetPendingDocuments(ctx, uuid.New(), 2)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(db.SetDocumentAnalyzed(ctx, first.UUID, models.DocumentSummary{})).To(Succeed())
				clock.FakeClock.Add(time.Hour)
				Expect(db.SetDocumentFailed(ctx, second.UUID)).To(Succeed())

				clock.FakeClock.Add(30 * time.Minute)
				Expect(db.DeleteAnalyzedDocumentsExceedingDuration(ctx, time.Hour)).To(Succeed())

				docs, err := db.ListDocuments(ctx)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(docs).To(HaveLen(2))
				Expect(docs[0].UUID).To(Equal(second.UUID))
				Expect(docs[1].UUID).To(Equal(third.UUID))
			})
		})
	})
})
