// internal/chat/selectors.go
package chat

// Selectors for the chat UI. The legacy variants cover the older markup
// still served to some accounts.
const (
	readySelector       = "#prompt-textarea"
	readySelectorLegacy = `textarea[data-id="root"]`

	emailSelector       = `input[name="username"]`
	emailSelectorAlt    = `input[type="email"]`
	passwordSelector    = `input[name="password"]`
	passwordSelectorAlt = `input[type="password"]`
	submitSelector      = `button[type="submit"]`

	uploadSelector        = `input[type="file"]`
	uploadedImageSelector = `img[alt="Uploaded image"]`

	newChatXPath       = `//a[normalize-space()='New chat'] | //button[normalize-space()='New chat']`
	modelSwitcherQuery = `button[aria-label="Model switcher"]`

	loginButtonXPath = `//button[normalize-space()='Log in']`
	loginButtonQuery = `button[data-testid="login-button"]`
)

// loginScanScript walks every interactive control and clicks the first
// one with login-like text. Last-resort strategy when the fixed
// selectors have drifted.
const loginScanScript = `(() => {
	const labels = ['log in', 'login', 'sign in'];
	const controls = Array.from(document.querySelectorAll('button, a[href]'));
	for (const el of controls) {
		const text = (el.innerText || '').trim().toLowerCase();
		if (labels.some(l => text === l || text.startsWith(l + ' '))) {
			el.click();
			return true;
		}
	}
	return false;
})()`

// lastGeneratedImageScript returns the source of the newest generated
// image, skipping the uploaded-image echo. Generation UIs append newest
// content last, so the final match is the result candidate.
const lastGeneratedImageScript = `(() => {
	const imgs = Array.from(document.querySelectorAll('img.rounded-md'))
		.filter(img => img.getAttribute('alt') !== 'Uploaded image')
		.filter(img => img.src);
	return imgs.length ? imgs[imgs.length - 1].src : '';
})()`
