package core

import (
	"fmt"
	"strings"
)

type guidanceTopic struct {
	keyword string
	text    string
}

// Topics are matched in order; the first hit wins.
var guidanceTopics = []guidanceTopic{
	{keyword: "web development", text: webDevelopmentGuidance},
	{keyword: "data science", text: dataScienceGuidance},
	{keyword: "mobile development", text: mobileDevelopmentGuidance},
}

// FallbackGuidance returns canned career advice for question without any I/O.
func FallbackGuidance(question string) string {
	lower := strings.ToLower(question)
	for _, topic := range guidanceTopics {
		if strings.Contains(lower, topic.keyword) {
			return topic.text
		}
	}
	return fmt.Sprintf(genericGuidance, strings.TrimSpace(question))
}

const webDevelopmentGuidance = `**Web Development Career Path:**

**1. Fundamentals (2-3 months):**
- HTML, CSS, JavaScript basics
- Git version control
- Command line basics

**2. Frontend Development (3-4 months):**
- React.js or Vue.js
- Responsive design
- CSS frameworks (Bootstrap, Tailwind)

**3. Backend Development (3-4 months):**
- Node.js with Express
- Database (MongoDB or PostgreSQL)
- RESTful APIs

**4. Advanced Skills (2-3 months):**
- TypeScript
- Testing (Jest, Cypress)
- Deployment (Vercel, Netlify)

**Free Resources:**
- freeCodeCamp.org
- The Odin Project
- MDN Web Docs
- YouTube: Traversy Media, The Net Ninja

**Projects to Build:**
1. Personal portfolio
2. Todo app with CRUD
3. E-commerce site
4. Social media clone`

const dataScienceGuidance = `**Data Science Career Path:**

**1. Programming Fundamentals (2-3 months):**
- Python basics
- Jupyter notebooks
- Git version control

**2. Data Analysis (3-4 months):**
- Pandas, NumPy
- Data visualization (Matplotlib, Seaborn)
- SQL basics

**3. Machine Learning (4-6 months):**
- Scikit-learn
- Statistics fundamentals
- Feature engineering

**4. Advanced Topics (3-4 months):**
- Deep learning (TensorFlow/PyTorch)
- Big data tools (Spark)
- MLOps basics

**Free Resources:**
- Kaggle Learn
- DataCamp (free courses)
- YouTube: StatQuest, Krish Naik
- Books: "Python for Data Analysis"

**Projects to Build:**
1. Data analysis of public datasets
2. Predictive model for house prices
3. Image classification model
4. Recommendation system`

const mobileDevelopmentGuidance = `**Mobile Development Career Path:**

**1. Choose Platform (1 month):**
- iOS (Swift) or Android (Kotlin/Java)
- Cross-platform: React Native or Flutter

**2. Fundamentals (3-4 months):**
- Platform-specific basics
- UI/UX design principles
- App lifecycle

**3. Core Development (4-5 months):**
- Navigation and routing
- State management
- API integration
- Local storage

**4. Advanced Features (3-4 months):**
- Push notifications
- Maps integration
- Camera and media
- Performance optimization

**Free Resources:**
- Official platform documentation
- YouTube: CodeWithChris, The Net Ninja
- Udemy free courses
- GitHub sample projects

**Projects to Build:**
1. Weather app
2. Todo app with offline support
3. Social media app
4. E-commerce app`

// genericGuidance takes the question as its only verb.
const genericGuidance = `I understand you're asking about: "%s"

Here's some general career guidance for technology professionals:

**General Technology Career Path:**

**1. Foundation (2-3 months):**
- Programming fundamentals
- Problem-solving skills
- Version control (Git)
- Command line basics

**2. Specialization (3-6 months):**
- Choose your focus area
- Learn relevant technologies
- Build small projects
- Join communities

**3. Advanced Skills (3-6 months):**
- Framework expertise
- Testing and debugging
- Performance optimization
- Security best practices

**4. Professional Development:**
- Build portfolio
- Contribute to open source
- Network with professionals
- Stay updated with trends

**Free Learning Resources:**
- freeCodeCamp.org
- The Odin Project
- MDN Web Docs
- YouTube educational channels
- GitHub (for projects and collaboration)

**Recommended Next Steps:**
1. Identify your specific interest area
2. Start with fundamentals
3. Build projects consistently
4. Join online communities
5. Create a learning schedule

Would you like more specific guidance for a particular technology or career path?`
