package leave_test

import (
	"github.com/frahmantamala/leave-management/internal/balance"
	"github.com/frahmantamala/leave-management/internal/leave"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LOP Calculator", func() {
	Describe("ComputeLOP", func() {
		It("should charge only the overage as LOP", func() {
			b := &balance.Balance{Allocated: 12, Used: 10, Pending: 0}

			result := leave.ComputeLOP(b, 5)

			Expect(result.AvailableDays).To(Equal(2))
			Expect(result.LOPDays).To(Equal(3))
			Expect(result.Held(5)).To(Equal(2))
		})

		It("should not charge LOP when the balance covers the request", func() {
			b := &balance.Balance{Allocated: 12, Used: 2, Pending: 3}

			result := leave.ComputeLOP(b, 7)

			Expect(result.AvailableDays).To(Equal(7))
			Expect(result.LOPDays).To(BeZero())
		})

		It("should treat a missing balance as fully LOP", func() {
			result := leave.ComputeLOP(nil, 4)

			Expect(result.AvailableDays).To(BeZero())
			Expect(result.LOPDays).To(Equal(4))
			Expect(result.Held(4)).To(BeZero())
		})

		It("should never report negative availability", func() {
			b := &balance.Balance{Allocated: 5, Used: 5, Pending: 2}

			result := leave.ComputeLOP(b, 1)

			Expect(result.AvailableDays).To(BeZero())
			Expect(result.LOPDays).To(Equal(1))
		})
	})

	Describe("EvaluateCap", func() {
		It("should report the shortfall when the cap is exceeded", func() {
			status := leave.EvaluateCap(9, 2, 10)

			Expect(status.WithinLimit).To(BeFalse())
			Expect(status.TotalUsed).To(Equal(9))
			Expect(status.Remaining).To(Equal(1))
			Expect(status.ExceedsBy).To(Equal(1))
		})

		It("should allow reaching the cap exactly", func() {
			status := leave.EvaluateCap(8, 2, 10)

			Expect(status.WithinLimit).To(BeTrue())
			Expect(status.ExceedsBy).To(BeZero())
		})

		It("should clamp remaining at zero once the cap is spent", func() {
			status := leave.EvaluateCap(12, 0, 10)

			Expect(status.Remaining).To(BeZero())
			Expect(status.WithinLimit).To(BeFalse())
		})
	})
})
