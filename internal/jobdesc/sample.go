// Package jobdesc supplies job description text: the built-in sample posting and
// postings fetched from the web.
package jobdesc

// Sample is a ready-made posting for trying the matcher out.
const Sample = `Senior Frontend Developer

We are looking for a skilled Frontend Developer to join our team. 

Requirements:
- 3+ years of experience in React.js development
- Strong knowledge of JavaScript, HTML, CSS
- Experience with Node.js and RESTful APIs
- Familiarity with Git version control
- Knowledge of responsive design principles
- Experience with modern build tools and workflows

Responsibilities:
- Develop and maintain web applications using React.js
- Collaborate with design and backend teams
- Write clean, maintainable code
- Participate in code reviews
- Stay up-to-date with latest web technologies

Nice to have:
- Experience with TypeScript
- Knowledge of AWS or cloud platforms
- Familiarity with Docker and containerization`
