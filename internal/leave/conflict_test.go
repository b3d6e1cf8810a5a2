package leave_test

import (
	"time"

	"github.com/frahmantamala/leave-management/internal/leave"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func date(s string) time.Time {
	t, err := time.Parse(leave.DateLayout, s)
	Expect(err).NotTo(HaveOccurred())
	return t
}

var _ = Describe("Conflict Detector", func() {
	Describe("ClassifyOverlap", func() {
		DescribeTable("should classify the candidate against the existing range",
			func(start, end string, kind leave.OverlapKind) {
				Expect(leave.ClassifyOverlap(date(start), date(end), date("2025-08-11"), date("2025-08-15"))).To(Equal(kind))
			},
			Entry("inside", "2025-08-12", "2025-08-14", leave.OverlapCompletelyWithin),
			Entry("same range", "2025-08-11", "2025-08-15", leave.OverlapCompletelyWithin),
			Entry("covering", "2025-08-10", "2025-08-16", leave.OverlapCompletelyCovers),
			Entry("over the start", "2025-08-10", "2025-08-12", leave.OverlapStart),
			Entry("over the end", "2025-08-14", "2025-08-18", leave.OverlapEnd),
		)
	})

	Describe("FindConflicts", func() {
		var existing []*leave.Request

		BeforeEach(func() {
			existing = []*leave.Request{
				{ID: "approved", Status: leave.StatusApproved, StartDate: date("2025-08-11"), EndDate: date("2025-08-15")},
				{ID: "rejected", Status: leave.StatusRejected, StartDate: date("2025-08-11"), EndDate: date("2025-08-15")},
				{ID: "cancelled", Status: leave.StatusCancelled, StartDate: date("2025-08-10"), EndDate: date("2025-08-12")},
				{ID: "pending", Status: leave.StatusPending, StartDate: date("2025-09-01"), EndDate: date("2025-09-02")},
			}
		})

		It("should report the approved overlap and ignore terminal requests", func() {
			conflicts := leave.FindConflicts(existing, date("2025-08-10"), date("2025-08-12"), "")

			Expect(conflicts).To(HaveLen(1))
			Expect(conflicts[0].RequestID).To(Equal("approved"))
			Expect(conflicts[0].Kind).To(Equal(leave.OverlapStart))
		})

		It("should treat touching single days as overlapping", func() {
			conflicts := leave.FindConflicts(existing, date("2025-09-02"), date("2025-09-04"), "")

			Expect(conflicts).To(HaveLen(1))
			Expect(conflicts[0].Kind).To(Equal(leave.OverlapEnd))
		})

		It("should skip the excluded request", func() {
			conflicts := leave.FindConflicts(existing, date("2025-08-10"), date("2025-08-12"), "approved")

			Expect(conflicts).To(BeEmpty())
		})

		It("should return nothing for disjoint ranges", func() {
			conflicts := leave.FindConflicts(existing, date("2025-08-16"), date("2025-08-31"), "")

			Expect(conflicts).To(BeEmpty())
		})

		It("should describe the conflict for display", func() {
			conflicts := leave.FindConflicts(existing, date("2025-08-10"), date("2025-08-12"), "")

			Expect(conflicts[0].Message()).To(ContainSubstring("from 2025-08-11 to 2025-08-15"))
		})
	})

	Describe("Dates", func() {
		It("should count both ends of the range", func() {
			Expect(leave.InclusiveDays(date("2025-08-10"), date("2025-08-12"))).To(Equal(3))
			Expect(leave.InclusiveDays(date("2025-08-10"), date("2025-08-10"))).To(Equal(1))
		})

		It("should count ranges spanning centuries", func() {
			Expect(leave.InclusiveDays(date("0001-01-01"), date("9999-12-31"))).To(Equal(3652059))
			Expect(leave.InclusiveDays(date("1969-12-31"), date("1970-01-01"))).To(Equal(2))
			Expect(leave.InclusiveDays(date("2024-02-28"), date("2024-03-01"))).To(Equal(3))
		})

		It("should count weekend days", func() {
			// 2025-08-09 is a Saturday
			Expect(leave.WeekendDays(date("2025-08-08"), date("2025-08-11"))).To(Equal(2))
			Expect(leave.WeekendDays(date("2025-08-04"), date("2025-08-17"))).To(Equal(4))
			Expect(leave.WeekendDays(date("2025-08-04"), date("2025-08-08"))).To(BeZero())
		})

		It("should take the calendar date in the given zone", func() {
			jakarta := time.FixedZone("WIB", 7*3600)
			late := time.Date(2025, time.August, 1, 20, 0, 0, 0, time.UTC)

			Expect(leave.DateOf(late, jakarta)).To(Equal(date("2025-08-02")))
		})

		It("should reject malformed dates", func() {
			_, err := leave.ParseDate("start_date", "08/10/2025")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Status", func() {
		It("should only allow moves out of pending", func() {
			Expect(leave.StatusPending.CanTransitionTo(leave.StatusApproved)).To(BeTrue())
			Expect(leave.StatusApproved.CanTransitionTo(leave.StatusCancelled)).To(BeFalse())
			Expect(leave.StatusRejected.IsTerminal()).To(BeTrue())
			Expect(leave.StatusPending.IsTerminal()).To(BeFalse())
		})
	})
})
