package services

import (
	"fmt"
	"strings"

	"github.com/sherlockbot/cv-review-backend/internal/models"
)

// Outbound message copy. Every user-visible failure ends with an
// actionable next step, never a raw error.

func welcomeCopy() string {
	return "👋 Welcome to Sherlock Bot CV Review!\n\n" +
		"I'll help you improve your CV to stand out to employers. Here's how it works:\n\n" +
		"1️⃣ Upload your CV (PDF or Word format)\n" +
		"2️⃣ Choose basic (free) or advanced review\n" +
		"3️⃣ Receive detailed feedback\n\n" +
		"Ready to get started? Upload your CV now or type 'help' for more information."
}

func helpCopy() string {
	return "📄 *Sherlock Bot CV Review* 📄\n\n" +
		"*How it works:*\n" +
		"1. Upload your CV document (PDF or Word)\n" +
		"2. Choose your review option\n" +
		"3. Receive feedback\n\n" +
		"*Commands:*\n" +
		"• 'restart' - Start over\n" +
		"• 'help' - Show this message\n" +
		"• 'about' - About this service\n\n" +
		"Ready to start? Upload your CV now!"
}

func aboutCopy() string {
	return "🔍 *About Sherlock Bot* 🔍\n\n" +
		"Sherlock Bot is an AI-powered CV review service that helps job seekers optimize their CVs for better results.\n\n" +
		"Our analysis identifies key improvements that can increase your chances of getting interviews."
}

func uploadReminderCopy() string {
	return "I'm waiting for you to upload your CV. Please upload a PDF or Word document. " +
		"If you want to start over, type 'restart'."
}

func unexpectedDocumentCopy() string {
	return "I wasn't expecting a document at this stage. Please follow the prompts."
}

func unsupportedDocumentCopy() string {
	return "Please upload your CV as a PDF or Word document."
}

func documentErrorCopy() string {
	return "❌ Sorry, there was an error processing your document. Please try uploading it again."
}

func reviewOptionsCopy(price int, currency string) string {
	return "✅ Thank you for uploading your CV!\n\n" +
		"Now, please choose a review option:\n\n" +
		"1️⃣ Basic Review (Free)\n" +
		"• Key improvement areas\n" +
		"• Quick suggestions\n\n" +
		fmt.Sprintf("2️⃣ Advanced Review (%s %d)\n", currency, price) +
		"• Comprehensive analysis\n" +
		"• Detailed section-by-section feedback\n" +
		"• Downloadable report\n" +
		"• Email delivery option\n\n" +
		"Reply with '1' for Basic or '2' for Advanced."
}

func invalidOptionCopy(price int, currency string) string {
	return fmt.Sprintf("Please reply with '1' for Basic Review (Free) or '2' for Advanced Review (%s %d).", currency, price)
}

func paymentLinkCopy(price int, currency, link string) string {
	return "💳 *Advanced Review Payment* 💳\n\n" +
		fmt.Sprintf("To proceed with your Advanced CV Review (%s %d), please complete the payment using the link below:\n\n", currency, price) +
		link + "\n\n" +
		"After payment, you'll receive a comprehensive review with detailed feedback and suggestions."
}

func paymentErrorCopy() string {
	return "❌ Sorry, there was an error creating your payment link. Please try again, or type 'restart' to start over."
}

func paymentReminderCopy(link string) string {
	return "I'm waiting for you to complete the payment for your Advanced Review.\n\n" +
		"Here's your payment link:\n\n" + link + "\n\n" +
		"Reply 'basic' to switch to the free review, or 'cancel' to go back."
}

func paymentPendingCopy() string {
	return "Thanks! We're confirming your payment with the gateway. " +
		"You'll get a message here the moment it's confirmed."
}

func paymentCancelledCopy() string {
	return "Payment cancelled. Would you like to try the Basic Review instead? " +
		"Reply with '1' for Basic Review (Free) or '2' to try the Advanced Review payment again."
}

func paymentConfirmedNoDocumentCopy() string {
	return "💰 Your payment has been confirmed! It looks like your session expired, " +
		"so I no longer have your CV. Please upload it again (PDF or Word) to receive your Advanced Review."
}

func paymentConfirmedCopy() string {
	return "💰 Your payment has been confirmed! Would you like to receive your advanced review by email as well? " +
		"If yes, please reply with your email address, or type 'skip' to continue without email."
}

func invalidEmailCopy() string {
	return "That doesn't look like a valid email address. " +
		"Please enter a valid email address or type 'skip' to continue without email delivery."
}

func processingCopy(reviewType string) string {
	if reviewType == models.ReviewTypeAdvanced {
		return "🔍 Processing your Advanced Review...\n\nThis may take a few moments."
	}
	return "🔍 Processing your Basic Review...\n\nThis will take just a moment."
}

func reviewErrorCopy() string {
	return "❌ Sorry, there was an error processing your CV. " +
		"Please try uploading it again, or contact support if the issue persists."
}

func basicResultCopy(insights []string) string {
	var lines []string
	for _, insight := range insights {
		lines = append(lines, "• "+insight)
	}

	return "✅ *Your Basic CV Review is Ready!* ✅\n\n" +
		"*Key Insights:*\n\n" +
		strings.Join(lines, "\n\n") + "\n\n" +
		"Want a more detailed analysis? Reply with 'upgrade' to get the Advanced Review, or 'new' to submit a different CV."
}

func advancedResultCopy(review *models.ReviewResult) string {
	msg := "✅ *Your Advanced CV Review is Ready!* ✅\n\n" +
		fmt.Sprintf("*CV Score: %d/100*\n\n", review.Score) +
		"📊 *Detailed Analysis:*\n"

	if review.DownloadURL != "" {
		msg += "Your CV has been thoroughly reviewed. Download your full report here:\n\n" + review.DownloadURL + "\n\n"
	} else {
		var lines []string
		for _, insight := range review.Insights {
			lines = append(lines, "• "+insight)
		}
		msg += strings.Join(lines, "\n\n") + "\n\n"
	}

	if review.EmailSent {
		msg += fmt.Sprintf("📧 The report has also been sent to your email: %s\n\n", review.Email)
	}

	return msg + "To submit another CV for review, type 'new'."
}

func completedMenuCopy() string {
	return "Your CV review is complete. Here are your options:\n\n" +
		"• Type 'new' to submit another CV\n" +
		"• Type 'view' to see your review again\n" +
		"• Type 'upgrade' to get an Advanced Review (if you had a Basic Review)\n" +
		"• Type 'help' for more information"
}

func reviewNotFoundCopy() string {
	return "❌ Sorry, I couldn't find your review. Please type 'new' to submit a CV for review."
}

func newCVCopy() string {
	return "🔄 Let's review another CV!\n\nPlease upload your CV document (PDF or Word format)."
}

// ApologyMessage is the generic fallback sent when message handling
// fails; the session is left untouched so the user can simply retry.
func ApologyMessage() string {
	return "Sorry, something went wrong. Please try again later."
}
